// Package pipeline runs a named sequence of steps, each made of one or more external operations,
// and measures the whole run as a single scope with one stopover per step.
package pipeline
