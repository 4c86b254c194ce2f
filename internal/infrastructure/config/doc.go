// Package config loads and validates Show Logic Core configuration.
//
// Load reads a YAML file over built-in defaults, applies environment
// variable overrides of the form SHOWLOGIC_SECTION_KEY (for example
// SHOWLOGIC_MQTT_PASSWORD), then validates the result. Loading happens
// once at startup; the returned Config is plain data with no runtime
// behaviour.
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Show.Name)
//
// Keep credentials (MQTT password, InfluxDB token) out of the file and
// in environment variables, and restrict the file to 0600 when they
// must live there.
package config
