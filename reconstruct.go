package bigquerystorage

import (
	"bytes"
	"errors"
	"io"
	"log/slog"

	"cloud.google.com/go/bigquery/storage/apiv1/storagepb"
	"github.com/apache/arrow-go/v18/arrow/ipc"
)

// continuationMarker prefixes every Arrow IPC message framed for the wire.
// The service frames the schema and each record batch independently so that
// every gRPC message is decodable in isolation; the Arrow stream format
// wants one continuous byte stream instead, so reconstruction strips these.
var continuationMarker = [4]byte{0xff, 0xff, 0xff, 0xff}

// endOfStream is the sentinel an Arrow IPC stream reader needs to recognize
// termination. The wire protocol never sends it.
var endOfStream = [4]byte{0, 0, 0, 0}

// stripContinuation removes the continuation-marker segment of a framed
// Arrow IPC message, returning the unframed payload.
func stripContinuation(msg []byte) ([]byte, error) {
	if len(msg) < 4 {
		return nil, invalidResponse("arrow message of invalid len")
	}
	if !bytes.Equal(msg[:4], continuationMarker[:]) {
		return nil, invalidResponse("invalid arrow message")
	}
	if len(msg) == 4 {
		return nil, invalidResponse("empty arrow message")
	}
	return msg[4:], nil
}

// rowsReceiver is the subset of the generated ReadRows stream used here.
// Recv returns io.EOF once the server half-closes the stream.
type rowsReceiver interface {
	Recv() (*storagepb.ReadRowsResponse, error)
}

// RowsStreamReader consumes one storage stream and reassembles its framed
// messages into a single Arrow IPC byte stream. Obtain one from
// ReadSession.NextStream; each reader owns its underlying gRPC stream and is
// independent of its siblings.
type RowsStreamReader struct {
	schema   any // one of storagepb's ReadSession schema variants
	upstream rowsReceiver
	logger   *slog.Logger
	rowCount int64
}

func newRowsStreamReader(schema any, upstream rowsReceiver, logger *slog.Logger) *RowsStreamReader {
	return &RowsStreamReader{schema: schema, upstream: upstream, logger: logger}
}

// ReadIPCStream drains the stream and returns the reconstructed Arrow IPC
// buffer: the unframed schema payload, each record-batch payload in arrival
// order, then the end-of-stream sentinel. Any error mid-stream aborts
// reconstruction; a partial buffer is never returned. A stream with zero
// batches still yields a valid, zero-row IPC stream.
func (r *RowsStreamReader) ReadIPCStream() ([]byte, error) {
	var serializedSchema []byte
	switch s := r.schema.(type) {
	case *storagepb.ReadSession_ArrowSchema:
		serializedSchema = s.ArrowSchema.GetSerializedSchema()
	default:
		return nil, invalidResponse("expected arrow schema")
	}

	var buf bytes.Buffer
	body, err := stripContinuation(serializedSchema)
	if err != nil {
		return nil, err
	}
	buf.Write(body)

	batches := 0
	for {
		resp, err := r.upstream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fromRPC(err)
		}

		switch rows := resp.Rows.(type) {
		case *storagepb.ReadRowsResponse_ArrowRecordBatch:
			body, err := stripContinuation(rows.ArrowRecordBatch.GetSerializedRecordBatch())
			if err != nil {
				return nil, err
			}
			buf.Write(body)
			batches++
			r.rowCount += resp.GetRowCount()
			recordBatches.Inc()
			batchBytes.Add(float64(len(body)))
		case nil:
			return nil, invalidResponse("no rows received")
		default:
			return nil, invalidResponse("expected arrow record batch")
		}
	}

	buf.Write(endOfStream[:])
	if r.logger != nil {
		r.logger.Debug("Reconstructed IPC stream.",
			"batches", batches,
			"rows", r.rowCount,
			"bytes", buf.Len(),
		)
	}
	return buf.Bytes(), nil
}

// IntoArrowReader drains the stream and hands the reconstructed buffer to an
// Arrow IPC stream reader. The whole stream is downloaded before the reader
// is returned.
func (r *RowsStreamReader) IntoArrowReader() (*ipc.Reader, error) {
	buf, err := r.ReadIPCStream()
	if err != nil {
		return nil, err
	}
	reader, err := ipc.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, newError(KindDecode, err)
	}
	return reader, nil
}

// RowCount reports the server-counted rows observed so far. Complete only
// after ReadIPCStream or IntoArrowReader has returned.
func (r *RowsStreamReader) RowCount() int64 { return r.rowCount }
