// Package docpipe ingests documentation websites. It crawls a site,
// converts pages into a hierarchical section tree, fingerprints content,
// embeds only the sections that changed, and persists an incrementally
// updatable tree for downstream search and browsing.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, rod/).
package docpipe
