// Package analysis computes per-day statistics over indicator series.
//
// The pipeline runs in fixed order: normalization turns raw table rows
// into sorted, duplicate-free series; resolution applies the configured
// missing-value strategy; bucketing splits each series into calendar
// days with daytime and nighttime subsets; aggregation computes the
// requested statistics per day; shaping orders, filters and decorates
// the results for export. The Engine orchestrates those steps and fans
// the per-indicator work out across a bounded worker group.
//
// Values flow through unrounded float64s. Presentation rounding is the
// exporters' concern.
package analysis
