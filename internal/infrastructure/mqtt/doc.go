// Package mqtt connects Show Logic Core to its message bus.
//
// It wraps paho.mqtt.golang with the pieces the engine needs: a managed
// connection that reconnects with backoff, publishing with QoS and retained
// flags, wildcard subscriptions that survive reconnects, a Last Will for
// crash detection, and a health probe for startup checks.
//
// # Architecture
//
// MQTT sits between the show engine and the fixture controllers driving the
// physical lights. The broker decouples the two sides: the engine publishes
// commands, the controllers publish state, and neither needs to know the
// other's address.
//
//	Show Logic Core ↔ MQTT Broker ↔ Fixture Controllers
//
// # Security Considerations
//
// Production deployments set cfg.Broker.TLS and broker credentials; the dev
// broker in docker-compose.yml allows anonymous access. Payloads are plain
// JSON, protected only by the TLS transport.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Watch every light's reported state
//	err = client.Subscribe(mqtt.Topics{}.AllLightStates(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Command a single light
//	topic := mqtt.Topics{}.LightCommand("hearth")
//	client.Publish(topic, []byte(`{"command":"turn_on"}`), 1, false)
package mqtt
