/*
 * structure.go, part of gocrystal.
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
	"fmt"
	"sort"
	"strings"

	v3 "github.com/rmera/gocrystal/v3"
)

//Array is a per-atom auxiliary property (charges, magnetic moments, forces...).
//It holds Width values for each of Length atoms, in Data, atom-major.
type Array struct {
	Length int
	Width  int
	Data   []float64
}

//NewArray returns an Array of width 1 with a copy of data.
func NewArray(data []float64) *Array {
	return &Array{Length: len(data), Width: 1, Data: append([]float64(nil), data...)}
}

//Valid returns true if the declared shape of the array matches its data.
func (A *Array) Valid() bool {
	return A != nil && A.Width > 0 && A.Length >= 0 && len(A.Data) == A.Length*A.Width
}

//Atom returns a copy of the values for atom i.
func (A *Array) Atom(i int) []float64 {
	return append([]float64(nil), A.Data[i*A.Width:(i+1)*A.Width]...)
}

//Select returns a new array with the values for the atoms in
//indexes, in that order.
func (A *Array) Select(indexes []int) *Array {
	ret := &Array{Length: len(indexes), Width: A.Width, Data: make([]float64, 0, len(indexes)*A.Width)}
	for _, i := range indexes {
		ret.Data = append(ret.Data, A.Data[i*A.Width:(i+1)*A.Width]...)
	}
	return ret
}

func (A *Array) copy() *Array {
	return &Array{Length: A.Length, Width: A.Width, Data: append([]float64(nil), A.Data...)}
}

//Structure is a periodic crystal structure: a lattice, fractional
//coordinates and atomic numbers for each atom, plus per-site occupancies,
//per-atom auxiliary arrays and free-form metadata.
//The cell has one lattice vector per row, in Angstrom.
//The accessors return copies, so a Structure is not changed by the code
//that reads it.
type Structure struct {
	cell      *v3.Matrix
	frac      *v3.Matrix
	numbers   []int
	occupancy []float64
	arrays    map[string]*Array
	info      map[string]string
}

//NewStructure returns a structure with the given cell (3x3), fractional
//coordinates (Nx3) and atomic numbers (N). All occupancies are set to 1.
//The given data is copied.
func NewStructure(cell, frac *v3.Matrix, numbers []int) (*Structure, error) {
	if cell == nil || frac == nil {
		return nil, fmt.Errorf("goCrystal: NewStructure: nil cell or coordinates")
	}
	if r, c := cell.Dims(); r != 3 || c != 3 {
		return nil, fmt.Errorf("goCrystal: NewStructure: cell must be 3x3, got %dx%d", r, c)
	}
	if frac.NVecs() != len(numbers) {
		return nil, fmt.Errorf("goCrystal: NewStructure: %d positions but %d atomic numbers", frac.NVecs(), len(numbers))
	}
	for i, n := range numbers {
		if n < 0 || n >= len(symbols) {
			return nil, fmt.Errorf("goCrystal: NewStructure: invalid atomic number %d for atom %d", n, i)
		}
	}
	s := &Structure{
		cell:      cell.Clone(),
		frac:      frac.Clone(),
		numbers:   append([]int(nil), numbers...),
		occupancy: make([]float64, len(numbers)),
		arrays:    make(map[string]*Array),
		info:      make(map[string]string),
	}
	for i := range s.occupancy {
		s.occupancy[i] = 1
	}
	return s, nil
}

//NewStructureCartesian is like NewStructure, but takes cartesian coordinates.
func NewStructureCartesian(cell, cart *v3.Matrix, numbers []int) (*Structure, error) {
	if cell == nil || cart == nil {
		return nil, fmt.Errorf("goCrystal: NewStructureCartesian: nil cell or coordinates")
	}
	frac, err := v3.Cart2Frac(cart, cell)
	if err != nil {
		return nil, fmt.Errorf("goCrystal: NewStructureCartesian: %w", err)
	}
	return NewStructure(cell, frac, numbers)
}

//NewStructureSymbols is like NewStructure, but takes element symbols instead
//of atomic numbers.
func NewStructureSymbols(cell, frac *v3.Matrix, syms []string) (*Structure, error) {
	numbers := make([]int, len(syms))
	for i, s := range syms {
		n, err := Symbol2Number(s)
		if err != nil {
			return nil, err
		}
		numbers[i] = n
	}
	return NewStructure(cell, frac, numbers)
}

//Len returns the number of atoms in the structure.
func (S *Structure) Len() int {
	return len(S.numbers)
}

//Cell returns a copy of the lattice.
func (S *Structure) Cell() *v3.Matrix {
	return S.cell.Clone()
}

//Frac returns a copy of the fractional coordinates.
func (S *Structure) Frac() *v3.Matrix {
	return S.frac.Clone()
}

//Cartesian returns the cartesian coordinates of the atoms.
func (S *Structure) Cartesian() *v3.Matrix {
	return v3.Frac2Cart(S.frac, S.cell)
}

//Number returns the atomic number of atom i.
func (S *Structure) Number(i int) int {
	return S.numbers[i]
}

//Numbers returns a copy of the atomic numbers.
func (S *Structure) Numbers() []int {
	return append([]int(nil), S.numbers...)
}

//Symbol returns the element symbol of atom i.
func (S *Structure) Symbol(i int) string {
	return Number2Symbol(S.numbers[i])
}

//Symbols returns the element symbols of all atoms.
func (S *Structure) Symbols() []string {
	ret := make([]string, len(S.numbers))
	for i, n := range S.numbers {
		ret[i] = Number2Symbol(n)
	}
	return ret
}

//Occupancy returns the occupancy of site i.
func (S *Structure) Occupancy(i int) float64 {
	return S.occupancy[i]
}

//Occupancies returns a copy of the site occupancies.
func (S *Structure) Occupancies() []float64 {
	return append([]float64(nil), S.occupancy...)
}

//SetOccupancies sets the site occupancies. occ must have one value per atom.
func (S *Structure) SetOccupancies(occ []float64) error {
	if len(occ) != S.Len() {
		return fmt.Errorf("goCrystal: SetOccupancies: %d values for %d atoms", len(occ), S.Len())
	}
	S.occupancy = append([]float64(nil), occ...)
	return nil
}

//SetArray attaches a copy of the per-atom array A under name. The array must
//be valid and have one entry per atom. The names "positions" and "numbers"
//are reserved.
func (S *Structure) SetArray(name string, A *Array) error {
	if name == "positions" || name == "numbers" {
		return fmt.Errorf("goCrystal: SetArray: %q is a reserved name", name)
	}
	if !A.Valid() {
		return fmt.Errorf("goCrystal: SetArray: array %q has an inconsistent shape", name)
	}
	if A.Length != S.Len() {
		return fmt.Errorf("goCrystal: SetArray: array %q has %d entries for %d atoms", name, A.Length, S.Len())
	}
	S.arrays[name] = A.copy()
	return nil
}

//Array returns a copy of the array under name, or nil if there is none.
func (S *Structure) Array(name string) *Array {
	A, ok := S.arrays[name]
	if !ok {
		return nil
	}
	return A.copy()
}

//ArrayNames returns the names of the auxiliary arrays, sorted.
func (S *Structure) ArrayNames() []string {
	ret := make([]string, 0, len(S.arrays))
	for k := range S.arrays {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//SetInfo sets a metadata key.
func (S *Structure) SetInfo(key, value string) {
	S.info[key] = value
}

//Info returns the metadata value for key and whether it was present.
func (S *Structure) Info(key string) (string, bool) {
	v, ok := S.info[key]
	return v, ok
}

//InfoKeys returns the metadata keys, sorted.
func (S *Structure) InfoKeys() []string {
	ret := make([]string, 0, len(S.info))
	for k := range S.info {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//Volume returns the volume of the cell in cubic Angstrom.
func (S *Structure) Volume() float64 {
	return v3.Volume(S.cell)
}

//Elements returns the distinct element symbols, in order of first appearance.
func (S *Structure) Elements() []string {
	seen := make(map[int]bool)
	ret := make([]string, 0, 4)
	for _, n := range S.numbers {
		if !seen[n] {
			seen[n] = true
			ret = append(ret, Number2Symbol(n))
		}
	}
	return ret
}

//Formula returns the chemical formula in Hill order
//(C and H first if there is C, then alphabetical).
func (S *Structure) Formula() string {
	count := make(map[string]int)
	for _, s := range S.Symbols() {
		count[s]++
	}
	keys := make([]string, 0, len(count))
	for k := range count {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if _, ok := count["C"]; ok {
		first := []string{"C"}
		if _, ok := count["H"]; ok {
			first = append(first, "H")
		}
		rest := make([]string, 0, len(keys))
		for _, k := range keys {
			if k != "C" && k != "H" {
				rest = append(rest, k)
			}
		}
		keys = append(first, rest...)
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		if count[k] > 1 {
			fmt.Fprintf(&b, "%d", count[k])
		}
	}
	return b.String()
}

//Copy returns a deep copy of the structure.
func (S *Structure) Copy() *Structure {
	r := &Structure{
		cell:      S.cell.Clone(),
		frac:      S.frac.Clone(),
		numbers:   S.Numbers(),
		occupancy: S.Occupancies(),
		arrays:    make(map[string]*Array, len(S.arrays)),
		info:      make(map[string]string, len(S.info)),
	}
	for k, v := range S.arrays {
		r.arrays[k] = v.copy()
	}
	for k, v := range S.info {
		r.info[k] = v
	}
	return r
}

//String returns a short description of the structure.
func (S *Structure) String() string {
	return fmt.Sprintf("%s (%d atoms, V=%.3f)", S.Formula(), S.Len(), S.Volume())
}
