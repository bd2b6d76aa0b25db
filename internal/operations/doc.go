// Package operations orchestrates the load, analyze, export pipeline that
// turns one sensor log file into statistics reports.
//
// Core components:
//
// Manager: drives a slice of Steps sequentially over a shared OperationState,
// recording per-Step status, spans, and progress. The first failure stops the
// run and marks the remaining Steps skipped.
//
// Step: an interface for a single unit of pipeline work. Validate runs
// immediately before Execute, so a Step may require artifacts produced by the
// Steps before it.
//
// OperationState: carries the fixed inputs of a run (config, paths, request,
// input path) and the artifacts Steps hand to their successors (the loaded
// table, the analysis result, the written output paths).
//
// Example usage:
//
//	state := operations.NewOperationState(runID)
//	state.Config = cfg
//	state.Paths = paths
//	state.Request = req
//	state.InputPath = "data/sensors.xlsx"
//	state.OutputBase = "sensors"
//
//	manager := operations.NewManager(
//		operations.WithManagerLogger(logger),
//		operations.WithManagerTracer(operations.NewOperationTracer(providers.Tracer)),
//	)
//	err := manager.Execute(ctx, state, operations.DefaultSteps(formats, logger, providers.Tracer))
package operations
