// Package pkg provides the core libraries for fixturefit bathroom layouts.
//
// # Overview
//
// fixturefit places bathroom fixtures (toilet, sink, shower, bathtub, ...)
// in a rectangular room with doors and windows, scores every candidate
// layout and reports the best. The pkg directory is organized into three
// areas:
//
//  1. Model - [geometry], [catalog] and [layout] describe rooms, openings,
//     fixture types and placed fixtures
//  2. Algorithms - [placement] samples valid layouts, [space] and [access]
//     analyze the free floor, [scoring] rates a layout and [search] ranks
//     candidates with the resample or beam strategy
//  3. Infrastructure - [pipeline] orchestrates search → analyze with
//     caching through [cache]; [errors], [observability] and [buildinfo]
//     support all of them
//
// # Architecture
//
// The typical data flow:
//
//	Room + openings + requested fixtures
//	         ↓
//	    [catalog] package (resolve fixture types)
//	         ↓
//	    [placement] package (sample valid layouts)
//	         ↓
//	    [scoring] package (rate each candidate)
//	         ↓
//	    [search] package (rank, keep the best)
//	         ↓
//	    [space] + [access] packages (free floor of the winner)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Room:     geometry.Room{Width: 200, Depth: 250, Height: 250},
//	    Openings: []geometry.Opening{{ID: "door1", Kind: geometry.KindDoor, Wall: geometry.WallLeft, X: 20, Width: 80}},
//	    Fixtures: []string{"toilet", "sink", "shower"},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Search.Best.Score.Total)
//
// [geometry]: github.com/matzehuels/fixturefit/pkg/geometry
// [catalog]: github.com/matzehuels/fixturefit/pkg/catalog
// [layout]: github.com/matzehuels/fixturefit/pkg/layout
// [placement]: github.com/matzehuels/fixturefit/pkg/placement
// [space]: github.com/matzehuels/fixturefit/pkg/space
// [access]: github.com/matzehuels/fixturefit/pkg/access
// [scoring]: github.com/matzehuels/fixturefit/pkg/scoring
// [search]: github.com/matzehuels/fixturefit/pkg/search
// [pipeline]: github.com/matzehuels/fixturefit/pkg/pipeline
// [cache]: github.com/matzehuels/fixturefit/pkg/cache
// [errors]: github.com/matzehuels/fixturefit/pkg/errors
// [observability]: github.com/matzehuels/fixturefit/pkg/observability
// [buildinfo]: github.com/matzehuels/fixturefit/pkg/buildinfo
package pkg
