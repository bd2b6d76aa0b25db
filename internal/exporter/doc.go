// Package exporter writes analysis results to their delivery formats.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// SeriesExporter: Writes one CSV file per indicator, a date column plus
// one column per computed statistic.
//
// ExcelExporter: Writes a single workbook with one sheet per indicator,
// keeping values numeric for further spreadsheet work.
//
// ChartExporter: Renders one PNG line chart per indicator with one
// polyline per statistic, strided axis labels, a legend and a grid.
//
// Example usage:
//
//	series := exporter.NewSeriesExporter(paths, logger)
//	files, err := series.ExportCSV(result, "analysis")
//
//	charts := exporter.NewChartExporter(paths, 1440, 720, logger)
//	pngs, err := charts.Export(result, "analysis")
//
// Exporters format values for presentation (two decimal places in CSV);
// the analysis engine itself never rounds.
package exporter
