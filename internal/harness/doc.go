// Package harness runs conformance vectors against the WID parser.
//
// # Vector Format
//
// Suites are YAML files:
//
//	name: core
//	description: "What this suite pins down"
//	defaults:
//	  kind: wid
//	  W: 4
//	  Z: 6
//	  time_unit: sec
//	vectors:
//	  - name: wid_scope_and_padding
//	    id: "20260212T091530.0001Z-acme-0a1b2c"
//	    valid: true
//	    expect:
//	      scope: acme
//	      padding: 0a1b2c
//	  - name: hlc_missing_node
//	    kind: hlc
//	    id: "20260212T091530.0003Z"
//	    valid: false
//	    reason: node
//
// A vector may override any default. expect is a subset match: only the
// fields given are compared. Every valid vector must also re-render to its
// exact input.
//
// # Golden Reports
//
// Run produces a Report whose canonical JSON is compared against
// testdata/golden/<suite>.golden. To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
