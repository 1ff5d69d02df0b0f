package bigquerystorage

import (
	"fmt"
	"time"

	"cloud.google.com/go/bigquery/storage/apiv1/storagepb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// DataFormat selects the serialization format of a read session's streams.
type DataFormat = storagepb.DataFormat

// DataFormatArrow is the only format this package can reconstruct. The
// protocol also defines an AVRO format; requesting it makes every
// reconstruction fail with an invalid-response error.
const DataFormatArrow = storagepb.DataFormat_ARROW

// ReadSessionOptions configures session creation. The zero value asks for an
// Arrow session over all fields of the table, at the server's current
// snapshot, with a server-chosen number of streams.
type ReadSessionOptions struct {
	// DataFormat of the output data. Defaults to Arrow.
	DataFormat DataFormat

	// SnapshotTime reads the table as of this time. Zero means "now".
	SnapshotTime time.Time

	// SelectedFields restricts the read to the named top-level fields.
	// Empty reads all fields. Output field order is unrelated to this order.
	SelectedFields []string

	// RowRestriction is a SQL filter expression, similar to a WHERE clause.
	// Aggregates are not supported. Example: `int_field > 5`.
	RowRestriction string

	// MaxStreamCount caps the initial number of streams. Must be
	// non-negative; 0 lets the server choose. The server may return fewer
	// streams than requested.
	MaxStreamCount int32

	// ParentProjectID is the project that owns (and is billed for) the
	// session. Defaults to the project owning the table.
	ParentProjectID string
}

// buildCreateReadSessionRequest assembles the session-creation request.
// Unset options are left at their proto zero values so the server applies
// its own defaults; MaxStreamCount 0 in particular means "no constraint".
// Options this client can never serve are rejected before any RPC is issued.
func buildCreateReadSessionRequest(table Table, opts ReadSessionOptions) (*storagepb.CreateReadSessionRequest, error) {
	if opts.MaxStreamCount < 0 {
		return nil, fmt.Errorf("max stream count must be non-negative, got %d", opts.MaxStreamCount)
	}
	if opts.DataFormat != storagepb.DataFormat_DATA_FORMAT_UNSPECIFIED && opts.DataFormat != DataFormatArrow {
		return nil, fmt.Errorf("unsupported data format %v, only ARROW is supported", opts.DataFormat)
	}

	session := &storagepb.ReadSession{
		Table:      table.Path(),
		DataFormat: DataFormatArrow,
	}

	if !opts.SnapshotTime.IsZero() {
		session.TableModifiers = &storagepb.ReadSession_TableModifiers{
			SnapshotTime: timestamppb.New(opts.SnapshotTime),
		}
	}

	if len(opts.SelectedFields) > 0 || opts.RowRestriction != "" {
		session.ReadOptions = &storagepb.ReadSession_TableReadOptions{
			SelectedFields: opts.SelectedFields,
			RowRestriction: opts.RowRestriction,
		}
	}

	parent := opts.ParentProjectID
	if parent == "" {
		parent = table.ProjectID
	}

	return &storagepb.CreateReadSessionRequest{
		Parent:         "projects/" + parent,
		ReadSession:    session,
		MaxStreamCount: opts.MaxStreamCount,
	}, nil
}
