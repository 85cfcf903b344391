package main

import "github.com/flowcore/flowcore/internal/obslog"

func newObslogLogger(level string) (obslog.Logger, error) {
	return obslog.New(obslog.Options{
		Level:         level,
		HumanReadable: true,
		Component:     "flowctl",
	})
}
