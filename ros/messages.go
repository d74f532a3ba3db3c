package ros

import (
	"github.com/edaniels/gobag/rosbag"

	"go.viam.com/lfcmsgs/msg"
)

// SensorsForTopic decodes every Sensor message recorded on topic within window.
func SensorsForTopic(rb *rosbag.RosBag, topic string, window TimeWindow) ([]msg.Stamped[msg.Sensor], error) {
	return messagesForTopic[msg.Stamped[msg.Sensor]](rb, topic, window)
}

// ControlsForTopic decodes every Control message recorded on topic within window.
func ControlsForTopic(rb *rosbag.RosBag, topic string, window TimeWindow) ([]msg.Stamped[msg.Control], error) {
	return messagesForTopic[msg.Stamped[msg.Control]](rb, topic, window)
}
