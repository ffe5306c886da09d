package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/tools/go/analysis/analysistest"
)

func TestOsExitAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, OsExitAnalyzer, "main", "session")
}

func TestAnalyzers(t *testing.T) {
	names := make(map[string]bool)
	for _, a := range analyzers() {
		assert.False(t, names[a.Name], "analyzer %s added twice", a.Name)
		names[a.Name] = true
	}
	for _, name := range []string{"SA1019", "S1000", "printf", "shadow", "bodyclose", "enumcase", "osexitcheck"} {
		assert.True(t, names[name], name)
	}
	assert.False(t, names["S1008"])
}
