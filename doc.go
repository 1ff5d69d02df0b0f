// Package bigquerystorage is a small client for the Google BigQuery Storage
// read API. It serializes table contents into efficient, parallel streams
// and reassembles each stream into a standard Arrow IPC byte stream. The
// official API supports both Arrow and AVRO output; this package only
// supports Arrow.
//
// # Usage
//
// You need a [TokenProvider] for authentication. [ApplicationDefaultProvider]
// covers the common cases (service-account key file, gcloud credentials, GCE
// metadata server); any oauth2.TokenSource plugs in via
// [TokenSourceProvider].
//
// Reading happens in read sessions. A session covers one table and produces
// a schema plus a set of independent stream handles:
//
//	provider, err := bigquerystorage.ApplicationDefaultProvider(ctx)
//	if err != nil { ... }
//
//	client, err := bigquerystorage.NewClient(ctx, provider, bigquerystorage.Config{})
//	if err != nil { ... }
//	defer client.Close()
//
//	table := bigquerystorage.NewTable("bigquery-public-data", "london_bicycles", "cycle_stations")
//	session, err := client.CreateReadSession(ctx, table, bigquerystorage.ReadSessionOptions{
//		ParentProjectID: "my-billing-project",
//	})
//	if err != nil { ... }
//
// Walk the session's streams with [ReadSession.NextStream], which returns
// (nil, nil) once every handle has been handed out. Each [RowsStreamReader]
// downloads its stream and produces an Arrow IPC reader:
//
//	for {
//		stream, err := session.NextStream(ctx)
//		if err != nil { ... }
//		if stream == nil {
//			break
//		}
//		rdr, err := stream.IntoArrowReader()
//		if err != nil { ... }
//		for rdr.Next() {
//			rec := rdr.RecordBatch()
//			// use rec
//		}
//		rdr.Release()
//	}
//
// Streams are independent: each NextStream result may be consumed from its
// own goroutine. The session itself belongs to a single goroutine.
//
// # Errors
//
// Every failure is an [Error] with a closed [Kind] set separating transport
// failures, server status rejections, auth and metadata construction
// failures, and semantically invalid server responses. Nothing is retried
// internally; every error is terminal for the operation that raised it.
package bigquerystorage
