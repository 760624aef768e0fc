package mqtt

import "fmt"

// topicPrefix is the base of every topic the suite uses.
const topicPrefix = "ips"

// RawTopic returns the topic the device bridge publishes raw alarm lines to.
//
// Example: ips/lab-magnet/alarms/raw
func RawTopic(system string) string {
	return fmt.Sprintf("%s/%s/alarms/raw", topicPrefix, system)
}

// BoardTopic returns the topic a board's decoded status is published to.
//
// Example: ips/lab-magnet/alarms/board/MB1.T1
func BoardTopic(system, boardID string) string {
	return fmt.Sprintf("%s/%s/alarms/board/%s", topicPrefix, system, boardID)
}

// HealthTopic returns the topic the monitor publishes its liveness to.
//
// Example: ips/lab-magnet/monitor/health
func HealthTopic(system string) string {
	return fmt.Sprintf("%s/%s/monitor/health", topicPrefix, system)
}
