/*
 * selector.go, part of gocrystal.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package crystal

import (
	"errors"
	"log"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

//ErrMisaligned is returned by Pair when, after dropping the empty rows
//and the nil structures, there are not as many structures as rows.
var ErrMisaligned = errors.New("goCrystal: structures and metadata rows are not aligned")

//Row is the raw metadata returned with a structure by a database query.
type Row struct {
	Entry       string
	Occupancies []float64
}

//Empty returns true if the row carries no data.
func (R Row) Empty() bool {
	return R.Entry == "" && len(R.Occupancies) == 0
}

//Ordered returns true if every site in the row is fully occupied.
//An empty occupancy list counts as ordered.
func (R Row) Ordered() bool {
	for _, o := range R.Occupancies {
		if o != 1 {
			return false
		}
	}
	return true
}

//Candidate is a structure together with the metadata row it was built from.
type Candidate struct {
	Structure *Structure
	Row       Row
}

//Selection is the result of a selection: the structure picked, its database
//entry, and its index in the candidate list.
type Selection struct {
	Structure *Structure
	Entry     string
	Index     int
}

//Pair drops the empty rows and the nil structures, and pairs the remaining
//ones in order. It returns ErrMisaligned if the two lists don't end up with
//the same length.
func Pair(structs []*Structure, rows []Row) ([]Candidate, error) {
	s := make([]*Structure, 0, len(structs))
	for _, v := range structs {
		if v != nil {
			s = append(s, v)
		}
	}
	r := make([]Row, 0, len(rows))
	for _, v := range rows {
		if !v.Empty() {
			r = append(r, v)
		}
	}
	if len(s) != len(r) {
		return nil, ErrMisaligned
	}
	ret := make([]Candidate, len(s))
	for i := range s {
		ret[i] = Candidate{Structure: s[i], Row: r[i]}
	}
	return ret, nil
}

//Selector picks one representative structure out of the candidates returned
//for a query. Diagnostics go to Log, or to the standard logger if Log is nil.
type Selector struct {
	Log *log.Logger
}

func (S *Selector) logf(format string, v ...interface{}) {
	if S == nil || S.Log == nil {
		log.Printf(format, v...)
		return
	}
	S.Log.Printf(format, v...)
}

//Select uses a Selector with the standard logger to pick a structure from cands.
func Select(cands []Candidate) (Selection, bool) {
	var s *Selector
	return s.Select(cands)
}

//Select picks a structure from cands. Among the candidates with the
//fewest atoms it takes the one whose flattened cell is closest to the
//component-wise median cell (the first one on ties). If that candidate has
//partially occupied sites, the first candidate in cands with every site fully
//occupied is returned instead. Candidates with a nil Structure are skipped.
//The second return value is false if no suitable structure exists.
func (S *Selector) Select(cands []Candidate) (Selection, bool) {
	minimal := math.MaxInt
	for _, c := range cands {
		if c.Structure == nil {
			continue
		}
		if n := c.Structure.Len(); n < minimal {
			minimal = n
		}
	}
	if minimal == math.MaxInt {
		S.logf("goCrystal: no structures to select from")
		return Selection{}, false
	}
	idx := make([]int, 0, len(cands))
	cells := make([][]float64, 0, len(cands))
	for i, c := range cands {
		if c.Structure != nil && c.Structure.Len() == minimal {
			idx = append(idx, i)
			cells = append(cells, c.Structure.cell.Flat())
		}
	}
	med := median(cells)
	best := 0
	bestd := math.Inf(1)
	for k, c := range cells {
		if d := floats.Distance(c, med, 2); d < bestd {
			best = k
			bestd = d
		}
	}
	picked := idx[best]
	if cands[picked].Row.Ordered() {
		return selection(cands, picked), true
	}
	for i, c := range cands {
		if c.Structure != nil && c.Row.Ordered() {
			return selection(cands, i), true
		}
	}
	S.logf("goCrystal: no structures were found where all atoms have constant occupancy")
	return Selection{}, false
}

func selection(cands []Candidate, i int) Selection {
	return Selection{Structure: cands[i].Structure, Entry: cands[i].Row.Entry, Index: i}
}

//median returns the component-wise median of the vectors in vecs,
//which must all have the same length. For an even number of vectors
//the mean of the two central values is used.
func median(vecs [][]float64) []float64 {
	if len(vecs) == 0 {
		return nil
	}
	n := len(vecs[0])
	ret := make([]float64, n)
	col := make([]float64, len(vecs))
	for j := 0; j < n; j++ {
		for i, v := range vecs {
			col[i] = v[j]
		}
		sort.Float64s(col)
		m := len(col) / 2
		if len(col)%2 == 1 {
			ret[j] = col[m]
		} else {
			ret[j] = (col[m-1] + col[m]) / 2
		}
	}
	return ret
}
