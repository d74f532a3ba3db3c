// Package ros reads controller messages out of ROS bags.
package ros

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/edaniels/gobag/rosbag"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/lfcmsgs/logging"
)

// ErrNoMessages is returned when a topic has no messages in the bag or time window.
var ErrNoMessages = errors.New("no messages for topic")

// TimeWindow restricts messages to those recorded within [Start, End], at second resolution.
// A zero Start or End leaves that side unbounded.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) contains(secs int64) bool {
	if !w.Start.IsZero() && secs < w.Start.Unix() {
		return false
	}
	if !w.End.IsZero() && secs > w.End.Unix() {
		return false
	}
	return true
}

// ReadBag reads the contents of a rosbag into a gobag data structure.
func ReadBag(filename string) (*rosbag.RosBag, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	rb := rosbag.NewRosBag()
	if err := rb.Read(f); err != nil {
		return nil, errors.Wrapf(err, "unable to create ros bag")
	}
	return rb, nil
}

// TopicKey returns the key gobag files a topic's JSON messages under: the topic without its
// leading slash, with the remaining slashes replaced by underscores, lowercased.
func TopicKey(topic string) string {
	topic = strings.TrimPrefix(topic, "/")
	return strings.ToLower(strings.ReplaceAll(topic, "/", "_"))
}

// AllMessagesForTopic returns all messages for a specific topic in the ros bag.
func AllMessagesForTopic(rb *rosbag.RosBag, topic string) ([]map[string]interface{}, error) {
	return messagesForTopic[map[string]interface{}](rb, topic, TimeWindow{})
}

func messagesForTopic[T any](rb *rosbag.RosBag, topic string, window TimeWindow) ([]T, error) {
	if err := rb.ParseTopicsToJSON(
		"",
		window.contains,
		func(t string) bool { return TopicKey(t) == TopicKey(topic) },
		false,
	); err != nil {
		return nil, errors.Wrapf(err, "error while parsing bag to JSON")
	}

	msgs := rb.TopicsAsJSON[TopicKey(topic)]
	if msgs == nil || msgs.Len() == 0 {
		return nil, errors.Wrap(ErrNoMessages, topic)
	}
	all, err := decodeLines[T](msgs)
	if err != nil {
		return nil, errors.Wrapf(err, "topic %s", topic)
	}
	logging.Global().Debugw("decoded topic", "topic", topic, "messages", len(all))
	return all, nil
}

// decodeLines decodes newline-delimited JSON objects until the reader is exhausted.
func decodeLines[T any](r *bytes.Buffer) ([]T, error) {
	var all []T
	for i := 0; ; i++ {
		data, err := r.ReadBytes('\n')
		if len(bytes.TrimSpace(data)) > 0 {
			var message T
			if jsonErr := json.Unmarshal(data, &message); jsonErr != nil {
				return nil, errors.Wrapf(jsonErr, "cannot decode message %d", i)
			}
			all = append(all, message)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}
	return all, nil
}
