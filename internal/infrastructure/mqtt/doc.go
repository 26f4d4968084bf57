// Package mqtt provides MQTT client connectivity for otaboot.
//
// This package manages:
//   - Connection to the update broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for device offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is the transport between the device and the fleet's update
// publisher. A connected Client doubles as the "network interface
// reference" that is bound into the OTA agent's network parameters
// immediately before the agent is started.
//
//	fleet publisher ↔ MQTT broker ↔ otaboot agent (this device)
//
// # Security Considerations
//
//   - TLS with mutual authentication is required for production brokers;
//     the tls.Config comes from the secure transport subsystem.
//   - Anonymous plaintext access is only for local development.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, deviceID, tlsConf)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	filter := mqtt.Topics{}.DeviceUpdateFilter(deviceID)
//	err = client.Subscribe(filter, 1, func(topic string, payload []byte) error {
//	    // handle update notification
//	    return nil
//	})
package mqtt
