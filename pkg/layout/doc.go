// Package layout computes flowchart geometry: columns, vertical order,
// content-driven box sizes, absolute placement and orthogonal connector
// routing, all in page inches.
//
// The stages run in a fixed order inside Engine.Layout:
//
//	validate -> plan directions -> assign columns -> order columns
//	         -> size boxes -> place -> route connectors
//
// Each stage is a plain function over the graph and the previous stage's
// output, so the pieces are testable in isolation and the whole pipeline
// is deterministic: the same graph and configuration always produce a
// byte-identical Result.
//
// Graph integrity problems abort before geometry. Geometric anomalies
// (a column taller than the page, a connector that exhausted its lane
// search) never abort; they complete with a degraded result and are
// reported as structured diagnostics in Result.Warnings.
package layout
