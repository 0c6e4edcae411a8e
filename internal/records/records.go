// Package records holds records parsed by code that reformgen generates.
// reform_gen.go is checked in and must match what reformgen writes for
// this directory.
package records

import "time"

//go:generate go run github.com/SimonDaKappa/go-reform/cmd/reformgen

//reform:template "{year}-{month}-{day} {hour}:{minute}"
type Date struct {
	Year   uint16 `reform:"year"`
	Month  uint8  `reform:"month"`
	Day    uint8  `reform:"day"`
	Hour   uint8  `reform:"hour"`
	Minute uint8  `reform:"minute"`
}

// Span is a start date with an optional end and duration.
//
//reform:template "{start}(?: -> {end})?(?: in {took})?"
type Span struct {
	Start Date          `reform:"start"`
	End   *Date         `reform:"end"`
	Took  time.Duration `reform:"took"`
}

//reform:template `Vec\{{{x},\s*{y},\s*{z}\}}`
type Vec struct {
	X float64 `reform:"x"`
	Y float64 `reform:"y"`
	Z float64 `reform:"z"`
}
