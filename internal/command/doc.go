// Package command parses the textual operation sequences used to describe pipeline steps, e.g.
//
//	go build ./... ; go vet ./... ; echo "all; done"
package command
