package protoutils

import (
	"bufio"
	"encoding/binary"
	"io"
	"iter"
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const lengthPrefixSize = 4

// ErrTruncatedMessage is returned when a delimited stream ends in the middle of a message.
var ErrTruncatedMessage = errors.New("truncated delimited message")

// DelimitedMessageWriter writes wire messages to an [io.Writer] as protobuf Structs. Each
// message is prefixed by its size in bytes so individual messages can later be retrieved with a
// [DelimitedMessageReader].
type DelimitedMessageWriter struct {
	writer io.Writer
}

// NewDelimitedMessageWriter creates a [DelimitedMessageWriter].
func NewDelimitedMessageWriter(writer io.Writer) *DelimitedMessageWriter {
	return &DelimitedMessageWriter{writer}
}

// Append encodes the message and writes it to the underlying [io.Writer].
func (w *DelimitedMessageWriter) Append(message interface{}) error {
	s, err := MessageToStruct(message)
	if err != nil {
		return err
	}
	return w.AppendStruct(s)
}

// AppendStruct writes an already encoded Struct to the underlying [io.Writer].
func (w *DelimitedMessageWriter) AppendStruct(s *structpb.Struct) error {
	messageBytes, err := proto.Marshal(s)
	if err != nil {
		return err
	}
	if uint64(len(messageBytes)) > math.MaxUint32 {
		return errors.Errorf("message of %d bytes is too large", len(messageBytes))
	}
	buffer := make([]byte, lengthPrefixSize, lengthPrefixSize+len(messageBytes))
	binary.LittleEndian.PutUint32(buffer, uint32(len(messageBytes)))
	// one write per message, so rotating writers never split a message across files
	_, err = w.writer.Write(append(buffer, messageBytes...))
	return err
}

// Close will close the underlying writer if it is a [io.Closer]. Otherwise it is a noop.
func (w *DelimitedMessageWriter) Close() error {
	if closer, ok := w.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// DelimitedMessageReader iterates over the Structs written by a [DelimitedMessageWriter].
type DelimitedMessageReader struct {
	reader io.Reader
	err    error
}

// NewDelimitedMessageReader creates a [DelimitedMessageReader].
func NewDelimitedMessageReader(reader io.Reader) *DelimitedMessageReader {
	return &DelimitedMessageReader{reader: reader}
}

// All returns an [iter.Seq] over the Structs in the stream. Iteration stops at the first
// malformed message; the cause is then available from Err.
func (r *DelimitedMessageReader) All() iter.Seq[*structpb.Struct] {
	// 2 GiB, as defined by the protobuf spec, plus the length header
	const bufferMaxSize = min(1024*1024*1024*2+lengthPrefixSize, math.MaxInt)
	return func(yield func(*structpb.Struct) bool) {
		scanner := bufio.NewScanner(r.reader)
		scanner.Buffer(nil, bufferMaxSize)
		scanner.Split(splitMessages)
		for scanner.Scan() {
			s := &structpb.Struct{}
			if err := proto.Unmarshal(scanner.Bytes(), s); err != nil {
				r.err = errors.Wrap(err, "cannot unmarshal delimited message")
				return
			}
			if !yield(s) {
				return
			}
		}
		r.err = scanner.Err()
	}
}

// Err returns the error that stopped the last iteration, if any.
func (r *DelimitedMessageReader) Err() error {
	return r.err
}

// Close will close the underlying reader if it is a [io.Closer]. Otherwise it is a noop.
func (r *DelimitedMessageReader) Close() error {
	if closer, ok := r.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func splitMessages(data []byte, atEOF bool) (int, []byte, error) {
	if len(data) < lengthPrefixSize {
		if atEOF && len(data) > 0 {
			return 0, nil, ErrTruncatedMessage
		}
		return 0, nil, nil
	}
	messageSize := int(binary.LittleEndian.Uint32(data[:lengthPrefixSize]))
	messageBytes := data[lengthPrefixSize:]
	if len(messageBytes) < messageSize {
		if atEOF {
			return 0, nil, ErrTruncatedMessage
		}
		return 0, nil, nil
	}
	return messageSize + lengthPrefixSize, messageBytes[:messageSize], nil
}

// ReadMessages decodes every message in a delimited stream into values of type T.
func ReadMessages[T any](reader io.Reader) ([]T, error) {
	r := NewDelimitedMessageReader(reader)
	var out []T
	for s := range r.All() {
		var m T
		if err := StructToMessage(s, &m); err != nil {
			return nil, errors.Wrapf(err, "message %d", len(out))
		}
		out = append(out, m)
	}
	return out, r.Err()
}
