// Package mqttlight implements an MQTT-backed light for Show Logic.
//
// It satisfies the device.Light contract by publishing JSON command
// messages to the broker; fixture controllers (ESPHome, Tasmota, custom
// firmware) subscribe to their command topic and drive the hardware.
//
// # Architecture
//
//	┌─────────────────┐          ┌──────────────────────┐
//	│ Show Logic Core │   MQTT   │ Fixture Controllers  │
//	│   (this pkg)    │─────────►│ (lights, dimmers)    │
//	└─────────────────┘          └──────────────────────┘
//
// # Key Responsibilities
//
//   - Translate TurnOn/TurnOff/SetColour calls into command messages
//   - Publish commands to showlogic/command/light/{id}
//   - Track reported light state from showlogic/state/light/+ (Monitor)
//
// # Command Messages
//
// Commands are JSON with a correlation ID and UTC timestamp:
//
//	{
//	  "id": "3f8e...",
//	  "timestamp": "2026-08-20T19:30:00Z",
//	  "light_id": "hearth",
//	  "command": "set_colour",
//	  "parameters": {"hue": 10, "saturation": 90, "value": 40},
//	  "source": "show"
//	}
//
// Delivery is fire-and-forget: a successful publish means the broker
// accepted the command, not that the fixture settled. This matches the
// dispatch semantics of the effects scheduler.
//
// # Usage
//
//	light, err := mqttlight.New(mqttlight.Config{ID: "hearth", QoS: 1}, client)
//	if err != nil {
//	    return err
//	}
//	registry.RegisterLight("hearth", light)
//
// # Thread Safety
//
// All exported types are safe for concurrent use from multiple goroutines.
package mqttlight
