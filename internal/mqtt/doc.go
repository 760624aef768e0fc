// Package mqtt wraps the Eclipse Paho client with the pieces the monitor
// needs: connect with timeout, tracked subscriptions restored on reconnect,
// publish helpers and the topic layout for alarm traffic.
package mqtt
