// Package fetcher downloads the pages a blacklist is built from.
//
// Requests are issued one at a time, in input order. A URL that cannot be
// fetched (transport failure, non-200 status, undecodable body) is logged
// and recorded as a failed source; it never aborts the remaining fetches.
// There are no retries.
//
// Bodies are transcoded to UTF-8 using the charset declared in the
// Content-Type header or, failing that, sniffed from the document with
// golang.org/x/net/html/charset. An optional SOCKS5 proxy and a minimum
// delay between requests can be configured.
package fetcher
