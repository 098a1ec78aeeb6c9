package dataprocessing

import (
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCumulativeSplitter_Split(t *testing.T) {
	df := frame(t,
		series.New([]string{"AAA", "BBB", "CCC"}, series.String, "iso"),
		series.New([]string{"Alpha", "Beta", "Gamma"}, series.String, "name"),
		series.New([]float64{100, 50, 8}, series.Float, "2000-2020 umd_tree_cover_gain__ha"),
		series.New([]interface{}{60.0, nil, 6.0}, series.Float, "2005-2020 umd_tree_cover_gain__ha"),
		series.New([]float64{30, 20, 4}, series.Float, "2010-2020 umd_tree_cover_gain__ha"),
		series.New([]int{10, 5, 2}, series.Int, "2015-2020 umd_tree_cover_gain__ha"),
		series.New([]float64{0, 0, 0}, series.Float, "extent_2000"),
	)

	out, err := NewGainSplitter().Split(df)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"iso", "name",
		"2000-2005 umd_tree_cover_gain__ha",
		"2005-2010 umd_tree_cover_gain__ha",
		"2010-2015 umd_tree_cover_gain__ha",
		"2015-2020 umd_tree_cover_gain__ha",
	}, out.Names())
	assert.Equal(t, 3, out.Nrow())

	first := out.Col("2000-2005 umd_tree_cover_gain__ha")
	second := out.Col("2005-2010 umd_tree_cover_gain__ha")
	third := out.Col("2010-2015 umd_tree_cover_gain__ha")
	last := out.Col("2015-2020 umd_tree_cover_gain__ha")

	// 100/60/30/10 -> 40/30/20/10
	assert.Equal(t, 40.0, first.Elem(0).Float())
	assert.Equal(t, 30.0, second.Elem(0).Float())
	assert.Equal(t, 20.0, third.Elem(0).Float())
	assert.Equal(t, 10.0, last.Elem(0).Float())

	// a missing operand yields missing results, not an error
	assert.True(t, first.Elem(1).IsNA())
	assert.True(t, second.Elem(1).IsNA())
	assert.Equal(t, 15.0, third.Elem(1).Float())

	// the last interval is carried over untouched
	assert.Equal(t, series.Int, last.Type())
	assert.Equal(t, []string{"10", "5", "2"}, last.Records())
}

func TestCumulativeSplitter_NonNumericOperand(t *testing.T) {
	df := frame(t,
		series.New([]string{"AAA"}, series.String, "iso"),
		series.New([]string{"Alpha"}, series.String, "name"),
		series.New([]string{"lots"}, series.String, "2000-2020 umd_tree_cover_gain__ha"),
		series.New([]float64{6}, series.Float, "2005-2020 umd_tree_cover_gain__ha"),
		series.New([]float64{4}, series.Float, "2010-2020 umd_tree_cover_gain__ha"),
		series.New([]float64{2}, series.Float, "2015-2020 umd_tree_cover_gain__ha"),
	)

	out, err := NewGainSplitter().Split(df)
	require.NoError(t, err)
	assert.True(t, out.Col("2000-2005 umd_tree_cover_gain__ha").Elem(0).IsNA())
	assert.Equal(t, 2.0, out.Col("2005-2010 umd_tree_cover_gain__ha").Elem(0).Float())
}

func TestCumulativeSplitter_Errors(t *testing.T) {
	df := frame(t,
		series.New([]string{"AAA"}, series.String, "iso"),
		series.New([]string{"Alpha"}, series.String, "name"),
		series.New([]float64{100}, series.Float, "2000-2020 umd_tree_cover_gain__ha"),
		series.New([]float64{60}, series.Float, "2005-2020 umd_tree_cover_gain__ha"),
		series.New([]float64{30}, series.Float, "2010-2020 umd_tree_cover_gain__ha"),
	)

	t.Run("missing cumulative column", func(t *testing.T) {
		_, err := NewGainSplitter().Split(df)
		assert.ErrorIs(t, err, ErrColumnNotFound)
		assert.Contains(t, err.Error(), "2015-2020 umd_tree_cover_gain__ha")
	})

	t.Run("missing keep column", func(t *testing.T) {
		s := NewGainSplitter()
		s.KeepColumns = []string{"iso", "country"}
		_, err := s.Split(df)
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("unordered boundaries", func(t *testing.T) {
		s := NewGainSplitter()
		s.Boundaries = []int{2005, 2000}
		_, err := s.Split(df)
		assert.Error(t, err)
	})

	t.Run("boundary past endpoint", func(t *testing.T) {
		s := NewGainSplitter()
		s.Endpoint = 2015
		_, err := s.Split(df)
		assert.Error(t, err)
	})
}

func TestCumulativeSplitter_TargetColumns(t *testing.T) {
	s := &CumulativeSplitter{
		Boundaries:     []int{2000, 2010},
		Endpoint:       2020,
		SourceTemplate: "gain_%d_%d",
		TargetTemplate: "period_%d_%d",
	}
	assert.Equal(t, []string{"period_2000_2010", "period_2010_2020"}, s.TargetColumns())
}
