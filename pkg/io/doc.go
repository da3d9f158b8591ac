// Package io provides JSON import and export for tile allocations.
//
// # Overview
//
// This package enables serialization of allocation results to and from a
// simple JSON document. The format is designed for:
//
//   - Splitting the pipeline: allocate once, render many times
//   - Integration with external tools that consume grid data
//   - Round-trip preservation: export, re-import, and render identically
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "title": "Browser market share",
//	  "categories": [
//	    {"label": "Chrome", "value": 65.1},
//	    {"label": "Safari", "value": 18.6}
//	  ],
//	  "proportions": [0.7777, 0.2222],
//	  "non_zero": 2,
//	  "visible": 2,
//	  "vertical": false,
//	  "grid": {
//	    "cells": [[0, 0, 1], [0, 0, 1]],
//	    "width": 3,
//	    "height": 2
//	  }
//	}
//
// Cell values index into the categories array; -1 marks background cells.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	doc, err := io.ImportJSON("alloc.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the document: the grid dimensions must match the
// cell matrix, and every cell must be a valid category index or background.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, or [WriteJSON] to write
// to any io.Writer:
//
//	err := io.ExportJSON(doc, "alloc.json")
package io
