// Package scheduler picks a full-time schedule from a pool of course sections.
//
// The pipeline is Enumerator -> Filter -> Score -> Engine.Select. Every
// combination of 2..5 sections (configurable, capped at
// HardMaxCombinationSize) is checked against the hard rules: one section per
// course, no time conflicts, a 12..18 credit band and the student's hard
// preferences. Feasible combinations are scored on the preferred time window
// and the highest score wins; ties keep the first combination in enumeration
// order, so parallel and sequential runs return the same schedule.
//
// The package performs no I/O. Callers fetch the candidate sections and
// convert them with the Section type.
package scheduler
