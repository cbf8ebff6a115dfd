/*
Package algotrace records classic algorithms as step-by-step traces and plays them back.

A producer runs an algorithm on a concrete input and writes down every primitive operation (a comparison, a swap, a push, a visit) as an immutable Step carrying a complete snapshot of what to draw. A Player then moves a cursor over those steps, forwards, backwards or on a timer, and notifies observers on every move.

# Concept

Production and playback are separate. A Run is built once, eagerly, and never changes; the Player never re-executes the algorithm. Every snapshot is independent, so stepping backwards is as cheap as stepping forwards and any step can be rendered on its own.

# Key Features

  - Deterministic Runs: the same algorithm and input always produce identical steps.
  - Self-contained Snapshots: each step carries the full visual state, never a diff.
  - Recursion Frames: recursive producers attach the shadow call stack to each step.
  - Pluggable Hosts: the same Player drives the CLI, the HTTP/SSE server and the MCP server.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/algotrace"
		"github.com/aretw0/algotrace/pkg/domain"
		"github.com/aretw0/algotrace/pkg/playback"
	)

	func main() {
		eng := algotrace.New()

		hooks := &playback.Hooks{
			OnStep: func(e playback.Emission) {
				if e.Step != nil {
					fmt.Printf("[%d/%d] %s\n", e.Index+1, e.Total, e.Step.Description)
				}
			},
		}

		p, err := eng.NewPlayer(context.Background(), "bubble-sort", domain.Input{Array: []int{3, 1, 2}}, hooks)
		if err != nil {
			log.Fatal(err)
		}

		for p.StepForward() {
		}
	}

Runs can be cached across processes with WithCache (see pkg/adapters/memory and pkg/adapters/redis), and builds are instrumented with WithMetrics and WithTracerProvider.
*/
package algotrace
