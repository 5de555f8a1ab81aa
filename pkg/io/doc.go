// Package io loads and saves the three map datasets: planets, leylines and
// powers.
//
// # Layout on Disk
//
// A dataset root holds one file per dataset, optionally split by timeframe:
//
//	<root>/planets.json               default timeframe
//	<root>/leylines.json
//	<root>/powers.json                optional
//	<root>/planets/<timeframe>.json   named timeframe
//
// Each file may also be YAML (.yaml or .yml). When several candidates exist
// the first in the order json, yaml, yml wins.
//
// # Sources
//
// A [Source] reads files relative to a root. [DirSource] reads the local
// filesystem; [HTTPSource] fetches below a base URL through an
// [httputil.Client], so remote datasets are cached and retried:
//
//	src, err := io.NewSource("https://maps.example.org/data", client)
//	a, err := io.LoadAtlas(ctx, src, "post-war")
//
// [LoadAtlas] validates the timeframe, normalises keys into names and checks
// that every leyline member names a known planet.
//
// # Export
//
// [WriteAtlas] writes an atlas back out in either format, which is also how
// the CLI converts between JSON and YAML.
package io
