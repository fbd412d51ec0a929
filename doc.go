// Package fsxa provides a Go SDK for consuming FirstSpirit content from a
// CaaS tenant.
//
// Content trees in the store are not self-contained: fields may reference
// other top-level entities (pages, media, datasets), possibly living in
// other projects with their own locale, nested arbitrarily deep. The SDK
// fetches content, maps the polymorphic raw trees into typed entities, and
// resolves the reference graph with batched, deduplicated fetches up to a
// configurable depth.
//
// # Core Concepts
//
//   - Canonical identifiers: every cache and registry key is of the form
//     "{uuid}.{locale}", optionally prefixed "{remoteProject}#" (package ident)
//   - Placeholder tokens: unresolved references are substituted by tokens
//     that denormalization later replaces with the resolved entity
//   - Rounds: one wave of registry-driven fetches across all projects;
//     rounds repeat until the graph is exhausted or the depth budget is hit
//
// # Getting Started
//
//	cfg, err := fsxa.LoadConfig("fsxa.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := fsxa.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.FetchElements(ctx, "0c5a4be4-49be-4f91-b989-3b4167d9b008")
//	if err != nil {
//		log.Fatal(err)
//	}
//	inlined, err := denorm.Denormalize(result)
//
// # Architecture
//
// The SDK is layered:
//
//   - fsxa: client facade, configuration, options
//   - resolver: batched, depth-bounded reference resolution
//   - mapper: polymorphic content-tree mapping and reference registration
//   - refs: request-scoped registry, cache, paths and token grammar
//   - caasclient: CaaS REST transport with optional Redis response cache
//   - richtext, denorm: rich-text parsing and placeholder substitution
package fsxa
