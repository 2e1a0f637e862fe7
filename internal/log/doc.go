// Package log defines the leveled logging sink used throughout the application, along with the
// engines that implement it. Measurements produced by package scope are written to a Logger at the
// Debug level; whether they are ever visible is a decision of the engine's configured Level.
package log
