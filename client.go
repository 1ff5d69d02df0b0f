package bigquerystorage

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery/storage/apiv1/storagepb"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"
)

// DefaultEndpoint is the BigQuery Storage API endpoint.
const DefaultEndpoint = "bigquerystorage.googleapis.com:443"

// MaxGRPCMessageSize is the max gRPC message size accepted from the server.
// Large tables produce record batches well past the default 4MB limit.
const MaxGRPCMessageSize = 1 << 30 // 1GB

// startOffset is sent on every ReadRows request. Resuming a partially
// consumed stream from a nonzero offset is not supported.
const startOffset = 0

// Config carries client construction options. The zero value is usable;
// DefaultConfig spells out the defaults.
type Config struct {
	// Endpoint of the storage service. Defaults to DefaultEndpoint.
	Endpoint string

	// UserAgent sent on the gRPC channel, if set.
	UserAgent string

	// MaxRecvMessageSize caps inbound gRPC messages.
	// Defaults to MaxGRPCMessageSize.
	MaxRecvMessageSize int

	// TelemetryStats installs the otelgrpc client stats handler on the
	// channel, emitting OpenTelemetry RPC spans and metrics.
	TelemetryStats bool

	// Logger receives debug-level progress logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration NewClient applies for unset fields.
func DefaultConfig() Config {
	return Config{
		Endpoint:           DefaultEndpoint,
		MaxRecvMessageSize: MaxGRPCMessageSize,
		Logger:             slog.Default(),
	}
}

// Client talks to the BigQuery Storage read service. Create one with
// NewClient, create read sessions with CreateReadSession, and Close it when
// done. A Client is safe for concurrent use.
type Client struct {
	rpc      storagepb.BigQueryReadClient
	tokens   TokenProvider
	logger   *slog.Logger
	conn     *grpc.ClientConn
	ownsConn bool // if true, Close() closes the connection
}

// NewClient dials the storage endpoint over TLS and returns a Client that
// authenticates every request through provider.
func NewClient(ctx context.Context, provider TokenProvider, cfg Config) (*Client, error) {
	def := DefaultConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.MaxRecvMessageSize == 0 {
		cfg.MaxRecvMessageSize = def.MaxRecvMessageSize
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}

	var dialOpts []grpc.DialOption
	dialOpts = append(dialOpts, grpc.WithTransportCredentials(
		credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12}),
	))
	dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(
		grpc.MaxCallRecvMsgSize(cfg.MaxRecvMessageSize),
	))
	if cfg.UserAgent != "" {
		dialOpts = append(dialOpts, grpc.WithUserAgent(cfg.UserAgent))
	}
	if cfg.TelemetryStats {
		dialOpts = append(dialOpts, grpc.WithStatsHandler(otelgrpc.NewClientHandler()))
	}

	conn, err := grpc.NewClient(cfg.Endpoint, dialOpts...)
	if err != nil {
		return nil, newError(KindTransport, fmt.Errorf("dial %s: %w", cfg.Endpoint, err))
	}

	return &Client{
		rpc:      storagepb.NewBigQueryReadClient(conn),
		tokens:   provider,
		logger:   cfg.Logger,
		conn:     conn,
		ownsConn: true,
	}, nil
}

// NewClientFromConn wraps an existing gRPC channel. The channel is NOT
// closed when this client is closed. Useful for sharing a connection or for
// pointing the client at a local fake in tests.
func NewClientFromConn(cc grpc.ClientConnInterface, provider TokenProvider, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		rpc:    storagepb.NewBigQueryReadClient(cc),
		tokens: provider,
		logger: logger,
	}
}

// Close releases the underlying connection, if this client owns one.
// Sessions and stream readers created from this client stop working.
func (c *Client) Close() error {
	if !c.ownsConn || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// CreateReadSession negotiates a read session for table. The returned
// session holds the table schema and the server-assigned stream handles;
// walk them with ReadSession.NextStream.
func (c *Client) CreateReadSession(ctx context.Context, table Table, opts ReadSessionOptions) (*ReadSession, error) {
	req, err := buildCreateReadSessionRequest(table, opts)
	if err != nil {
		return nil, err
	}
	session, err := c.createReadSession(ctx, req)
	if err != nil {
		return nil, err
	}
	sessionsCreated.Inc()
	c.logger.Debug("Created read session.",
		"table", req.ReadSession.Table,
		"session", session.GetName(),
		"streams", len(session.GetStreams()),
	)
	return &ReadSession{client: c, session: session}, nil
}

// requestContext returns a derived context carrying the authorization and
// request-routing metadata every storage RPC requires. The token lookup is
// fresh on every call; caching is the TokenProvider's concern.
func (c *Client) requestContext(ctx context.Context, routingParams string) (context.Context, error) {
	tok, err := c.tokens.Token(ctx, ReadScope)
	if err != nil {
		return nil, newError(KindAuth, err)
	}
	bearer := "Bearer " + tok
	if err := validateHeaderValue(bearer); err != nil {
		return nil, newError(KindMetadataEncoding, fmt.Errorf("authorization: %w", err))
	}
	if err := validateHeaderValue(routingParams); err != nil {
		return nil, newError(KindMetadataEncoding, fmt.Errorf("x-goog-request-params: %w", err))
	}
	return metadata.AppendToOutgoingContext(ctx,
		"authorization", bearer,
		"x-goog-request-params", routingParams,
	), nil
}

func (c *Client) createReadSession(ctx context.Context, req *storagepb.CreateReadSessionRequest) (*storagepb.ReadSession, error) {
	params := "read_session.table=" + req.ReadSession.Table
	ctx, err := c.requestContext(ctx, params)
	if err != nil {
		return nil, err
	}
	session, err := c.rpc.CreateReadSession(ctx, req)
	if err != nil {
		return nil, fromRPC(err)
	}
	return session, nil
}

// openRowStream opens the server stream for one stream handle, always from
// offset zero.
func (c *Client) openRowStream(ctx context.Context, streamName string) (storagepb.BigQueryRead_ReadRowsClient, error) {
	req := &storagepb.ReadRowsRequest{
		ReadStream: streamName,
		Offset:     startOffset,
	}
	ctx, err := c.requestContext(ctx, "read_stream="+req.ReadStream)
	if err != nil {
		return nil, err
	}
	rows, err := c.rpc.ReadRows(ctx, req)
	if err != nil {
		return nil, fromRPC(err)
	}
	streamsOpened.Inc()
	c.logger.Debug("Opened row stream.", "stream", streamName)
	return rows, nil
}

// validateHeaderValue rejects metadata values gRPC cannot carry in an ASCII
// header: anything outside the printable range 0x20-0x7E.
func validateHeaderValue(v string) error {
	for i := 0; i < len(v); i++ {
		if v[i] < 0x20 || v[i] > 0x7e {
			return fmt.Errorf("invalid byte %#x at position %d", v[i], i)
		}
	}
	return nil
}
