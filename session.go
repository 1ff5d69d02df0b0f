package bigquerystorage

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery/storage/apiv1/storagepb"
)

// ReadSession wraps a negotiated storage read session: the table schema plus
// an ordered list of independent stream handles. Obtain one from
// Client.CreateReadSession and drain the handles with NextStream.
//
// A ReadSession is owned by a single goroutine; NextStream mutates the
// handle list. The RowsStreamReaders it hands out are independent of the
// session and of each other, and may be consumed from separate goroutines.
type ReadSession struct {
	client  *Client
	session *storagepb.ReadSession
}

// Name returns the server-assigned session name.
func (s *ReadSession) Name() string { return s.session.GetName() }

// ExpireTime returns when the server will expire the session. Streams must
// be fully consumed before then.
func (s *ReadSession) ExpireTime() time.Time {
	return s.session.GetExpireTime().AsTime()
}

// EstimatedTotalBytesScanned returns the server's estimate of the bytes this
// session will scan.
func (s *ReadSession) EstimatedTotalBytesScanned() int64 {
	return s.session.GetEstimatedTotalBytesScanned()
}

// StreamCount returns the number of stream handles not yet distributed.
func (s *ReadSession) StreamCount() int { return len(s.session.GetStreams()) }

// NextStream pops the next stream handle, opens its row stream, and returns
// a reader over it. Handles are distributed in server order, each at most
// once. Returns (nil, nil) once every handle has been distributed; that is
// the session's terminal signal, not an error.
func (s *ReadSession) NextStream(ctx context.Context) (*RowsStreamReader, error) {
	streams := s.session.GetStreams()
	if len(streams) == 0 {
		return nil, nil
	}
	handle := streams[0]
	s.session.Streams = streams[1:]

	if s.session.Schema == nil {
		return nil, invalidResponse("empty schema response")
	}
	rows, err := s.client.openRowStream(ctx, handle.GetName())
	if err != nil {
		return nil, err
	}
	return newRowsStreamReader(s.session.Schema, rows, s.client.logger), nil
}
