// Package pkg provides the core libraries for leymap, a layout engine for
// leyline maps.
//
// # Overview
//
// A leyline is a closed loop through an ordered list of planets. leymap
// draws every leyline as a circle, places planets on the circles in member
// order with spacing proportional to the recorded distances, and keeps a
// planet that sits on several leylines at one shared position. It also
// answers shortest-route queries over the same network.
//
// # Architecture
//
// The typical data flow:
//
//	planets / leylines / powers (JSON or YAML, local or HTTP)
//	         ↓
//	    [io] package (load, timeframes)
//	         ↓
//	    [atlas] package (model + filters)
//	         ↓
//	    [layout] package (circle placement)   [pathfind] package (routes)
//	         ↓                                       ↓
//	    [graph] package (serializable Layout / Route)
//	         ↓
//	    [render] packages (SVG, DOT, PNG, PDF)
//
// [pipeline] runs the whole chain with caching and is what the CLI and the
// HTTP server call.
//
// # Main Packages
//
// [atlas] - Planets, leylines, powers and distances, plus the theater,
// multigate and hidden-leyline filters.
//
// [geom] - Points, circles and arc-length parameterisation.
//
// [layout] - The placement session: leyline selection, circular placement,
// overlap resolution and inscribed circles.
//
// [pathfind] - All-pairs shortest paths over leyline adjacency.
//
// [graph] - Wire types for layouts, routes and the node-link graph.
//
// [render/svg] - Map and route drawings. [render/nodelink] - Graphviz
// export of the planet graph.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches with a key derivation scheme.
//
// [httputil] - Dataset fetching with retry through the cache.
//
// [archive] - Layout history in SQLite or MongoDB.
//
// [observability] - Hooks for load, layout, route, render and cache events.
//
// [errors] - Coded errors and input validators.
//
// [buildinfo] - Version information set at link time.
package pkg
