/*
 * spacegroup.go, part of gocrystal.
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
	"math"
	"strconv"
	"strings"

	v3 "github.com/rmera/gocrystal/v3"
)

//SiteTolerance is the default tolerance, in fractional coordinates, under
//which two symmetry-generated sites are taken as the same site.
const SiteTolerance = 1e-3

//SymOp is a space-group operation acting on fractional coordinates,
//x' = Rot*x + Trans.
type SymOp struct {
	Rot   [3][3]int
	Trans [3]float64
}

//Apply returns the image of the fractional position f under the operation.
//The result is not wrapped into the cell.
func (O SymOp) Apply(f [3]float64) [3]float64 {
	var r [3]float64
	for i := 0; i < 3; i++ {
		r[i] = O.Trans[i]
		for j := 0; j < 3; j++ {
			r[i] += float64(O.Rot[i][j]) * f[j]
		}
	}
	return r
}

//seitz is an operation with its translation in twelfths, which
//makes group closure exact.
type seitz struct {
	r [3][3]int
	t [3]int
}

var identity = [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func mod12(i int) int {
	return ((i % 12) + 12) % 12
}

func (a seitz) mul(b seitz) seitz {
	var c seitz
	for i := 0; i < 3; i++ {
		t := a.t[i]
		for k := 0; k < 3; k++ {
			t += a.r[i][k] * b.t[k]
			for j := 0; j < 3; j++ {
				c.r[i][j] += a.r[i][k] * b.r[k][j]
			}
		}
		c.t[i] = mod12(t)
	}
	return c
}

func negate(r [3][3]int) [3][3]int {
	for i := range r {
		for j := range r[i] {
			r[i][j] = -r[i][j]
		}
	}
	return r
}

func (a seitz) op() SymOp {
	O := SymOp{Rot: a.r}
	for i, t := range a.t {
		O.Trans[i] = float64(t) / 12
	}
	return O
}

//lattice centering translations, in twelfths.
var centerings = map[byte][][3]int{
	'P': nil,
	'A': {{0, 6, 6}},
	'B': {{6, 0, 6}},
	'C': {{6, 6, 0}},
	'I': {{6, 6, 6}},
	'R': {{8, 4, 4}, {4, 8, 8}},
	'S': {{4, 4, 8}, {8, 8, 4}},
	'T': {{4, 8, 4}, {8, 4, 8}},
	'F': {{0, 6, 6}, {6, 0, 6}, {6, 6, 0}},
}

type rotKey struct {
	axis byte
	n    int
}

//proper rotations along the principal axes.
var rotations = map[rotKey][3][3]int{
	{'x', 2}: {{1, 0, 0}, {0, -1, 0}, {0, 0, -1}},
	{'y', 2}: {{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}},
	{'z', 2}: {{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}},
	{'x', 3}: {{1, 0, 0}, {0, 0, -1}, {0, 1, -1}},
	{'y', 3}: {{-1, 0, 1}, {0, 1, 0}, {-1, 0, 0}},
	{'z', 3}: {{0, -1, 0}, {1, -1, 0}, {0, 0, 1}},
	{'x', 4}: {{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{'y', 4}: {{0, 0, 1}, {0, 1, 0}, {-1, 0, 0}},
	{'z', 4}: {{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{'x', 6}: {{1, 0, 0}, {0, 1, -1}, {0, 1, 0}},
	{'y', 6}: {{0, 0, 1}, {0, 1, 0}, {-1, 0, 1}},
	{'z', 6}: {{1, -1, 0}, {1, 0, 0}, {0, 0, 1}},
}

//twofold rotations along the face diagonals (' and "), keyed by the
//axis they refer to.
var diagonals = map[rotKey][3][3]int{
	{'x', '\''}: {{-1, 0, 0}, {0, 0, -1}, {0, -1, 0}},
	{'x', '"'}:  {{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{'y', '\''}: {{0, 0, -1}, {0, -1, 0}, {-1, 0, 0}},
	{'y', '"'}:  {{0, 0, 1}, {0, -1, 0}, {1, 0, 0}},
	{'z', '\''}: {{0, -1, 0}, {-1, 0, 0}, {0, 0, -1}},
	{'z', '"'}:  {{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
}

//threefold rotation along the body diagonal.
var body3 = [3][3]int{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}}

var translations = map[rune][3]int{
	'a': {6, 0, 0},
	'b': {0, 6, 0},
	'c': {0, 0, 6},
	'n': {6, 6, 6},
	'u': {3, 0, 0},
	'v': {0, 3, 0},
	'w': {0, 0, 3},
	'd': {3, 3, 3},
}

//HallOps returns the operations of the space group with the given Hall
//symbol, e.g. "-F 4 2 3" for Fm-3m. The operations with a zero centering
//translation come first, starting with the identity, followed by their copies
//for each centering vector in turn. The symbol may end with an origin shift
//in twelfths, as in "P 31 2c (0 0 1)".
func HallOps(symbol string) ([]SymOp, error) {
	var shift [3]int
	if i := strings.Index(symbol, "("); i >= 0 {
		fields := strings.Fields(strings.Trim(symbol[i:], "() "))
		if len(fields) != 3 {
			return nil, fmt.Errorf("goCrystal: HallOps: malformed origin shift in %q", symbol)
		}
		for j, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("goCrystal: HallOps: malformed origin shift in %q: %w", symbol, err)
			}
			shift[j] = v
		}
		symbol = symbol[:i]
	}
	tokens := strings.Fields(symbol)
	if len(tokens) < 2 {
		return nil, fmt.Errorf("goCrystal: HallOps: %q has no operators", symbol)
	}
	lat := tokens[0]
	var gens []seitz
	if strings.HasPrefix(lat, "-") {
		gens = append(gens, seitz{r: negate(identity)})
		lat = lat[1:]
	}
	if len(lat) != 1 {
		return nil, fmt.Errorf("goCrystal: HallOps: unknown lattice %q in %q", lat, symbol)
	}
	cents, ok := centerings[lat[0]]
	if !ok {
		return nil, fmt.Errorf("goCrystal: HallOps: unknown lattice %q in %q", lat, symbol)
	}
	prevN := 0
	prevAxis := byte('z')
	for i, tok := range tokens[1:] {
		g, n, axis, err := hallOperator(tok, i, prevN, prevAxis)
		if err != nil {
			return nil, fmt.Errorf("goCrystal: HallOps: %q: %w", symbol, err)
		}
		gens = append(gens, g)
		prevN = n
		if axis == 'x' || axis == 'y' || axis == 'z' {
			prevAxis = axis
		}
	}
	if shift != [3]int{} {
		for i, g := range gens {
			//(R, t) becomes (R, t + v - Rv)
			for j := 0; j < 3; j++ {
				rv := 0
				for k := 0; k < 3; k++ {
					rv += g.r[j][k] * shift[k]
				}
				gens[i].t[j] = mod12(g.t[j] + shift[j] - rv)
			}
		}
	}
	for _, c := range cents {
		gens = append(gens, seitz{r: identity, t: c})
	}
	return orderOps(closure(gens), cents), nil
}

//hallOperator parses one operator of a Hall symbol. i is its position
//among the operators, prevN and prevAxis the order and the axis of the
//previous rotation, which determine the default axis.
func hallOperator(tok string, i, prevN int, prevAxis byte) (seitz, int, byte, error) {
	var g seitz
	improper := strings.HasPrefix(tok, "-")
	tok = strings.TrimPrefix(tok, "-")
	if tok == "" {
		return g, 0, 0, fmt.Errorf("empty operator")
	}
	n := int(tok[0] - '0')
	if n != 1 && n != 2 && n != 3 && n != 4 && n != 6 {
		return g, 0, 0, fmt.Errorf("rotation order %q not valid", tok[0])
	}
	rest := tok[1:]
	var axis byte
	if rest != "" && strings.IndexByte("xyz'\"*", rest[0]) >= 0 {
		axis = rest[0]
		rest = rest[1:]
	}
	if axis == 0 {
		switch {
		case i == 0:
			axis = 'z'
		case i == 1 && n == 2 && (prevN == 2 || prevN == 4):
			axis = 'x'
		case i == 1 && n == 2:
			axis = '\''
		case i == 2 && n == 3:
			axis = '*'
		}
	}
	switch {
	case n == 1:
		g.r = identity
	case axis == '\'' || axis == '"':
		g.r = diagonals[rotKey{prevAxis, int(axis)}]
		if n != 2 {
			return g, 0, 0, fmt.Errorf("operator %q: only twofold rotations along face diagonals", tok)
		}
	case axis == '*':
		g.r = body3
		if n != 3 {
			return g, 0, 0, fmt.Errorf("operator %q: only threefold rotations along the body diagonal", tok)
		}
	default:
		r, ok := rotations[rotKey{axis, n}]
		if !ok {
			return g, 0, 0, fmt.Errorf("operator %q has no axis", tok)
		}
		g.r = r
	}
	if improper {
		g.r = negate(g.r)
	}
	for _, c := range rest {
		if c >= '1' && c <= '5' {
			k := strings.IndexByte("xyz", axis)
			if k < 0 {
				return g, 0, 0, fmt.Errorf("operator %q: screw translation without a principal axis", tok)
			}
			g.t[k] += 12 * int(c-'0') / n
			continue
		}
		t, ok := translations[c]
		if !ok {
			return g, 0, 0, fmt.Errorf("operator %q: unknown translation %q", tok, c)
		}
		for k := range t {
			g.t[k] += t[k]
		}
	}
	for k := range g.t {
		g.t[k] = mod12(g.t[k])
	}
	return g, n, axis, nil
}

//closure returns the group generated by gens, identity first, in
//the order the elements are found.
func closure(gens []seitz) []seitz {
	e := seitz{r: identity}
	group := []seitz{e}
	seen := map[seitz]bool{e: true}
	for q := 0; q < len(group); q++ {
		a := group[q]
		for _, g := range gens {
			for _, p := range [2]seitz{a.mul(g), g.mul(a)} {
				if !seen[p] {
					seen[p] = true
					group = append(group, p)
				}
			}
		}
	}
	return group
}

//orderOps puts the operations with a zero centering translation first,
//followed by their copies shifted by each centering vector.
func orderOps(group []seitz, cents [][3]int) []SymOp {
	all := append([][3]int{{0, 0, 0}}, cents...)
	var reps []seitz
	for _, g := range group {
		dup := false
		for _, r := range reps {
			if r.r != g.r {
				continue
			}
			for _, c := range all {
				if mod12(g.t[0]-r.t[0]-c[0]) == 0 && mod12(g.t[1]-r.t[1]-c[1]) == 0 && mod12(g.t[2]-r.t[2]-c[2]) == 0 {
					dup = true
					break
				}
			}
			if dup {
				break
			}
		}
		if !dup {
			reps = append(reps, g)
		}
	}
	ret := make([]SymOp, 0, len(reps)*len(all))
	for _, c := range all {
		for _, r := range reps {
			s := r
			for k := range s.t {
				s.t[k] = mod12(s.t[k] + c[k])
			}
			ret = append(ret, s.op())
		}
	}
	return ret
}

//RhombohedralGroup returns true if the space group number n has a
//rhombohedral lattice, so it can be given in either hexagonal or
//rhombohedral axes.
func RhombohedralGroup(n int) bool {
	_, ok := rhombohedralHall[n]
	return ok
}

//SpaceGroupOps returns the operations of the space group with the
//international number n (1-230), in the standard setting: unique axis b for
//monoclinic groups, the first origin choice where there are two, and
//hexagonal axes for the rhombohedral groups unless rhombohedral is true.
func SpaceGroupOps(n int, rhombohedral bool) ([]SymOp, error) {
	if n < 1 || n >= len(hallSymbols) {
		return nil, fmt.Errorf("goCrystal: SpaceGroupOps: space group number %d out of range", n)
	}
	symbol := hallSymbols[n]
	if rhombohedral {
		s, ok := rhombohedralHall[n]
		if !ok {
			return nil, fmt.Errorf("goCrystal: SpaceGroupOps: space group %d has no rhombohedral setting", n)
		}
		symbol = s
	}
	return HallOps(symbol)
}

//ExpandBasis builds the structure generated by the symmetry operations ops
//from the symmetry-independent sites in basis (fractional coordinates), with
//atomic numbers numbers and occupancies occs (nil means all 1). Images are
//wrapped into the cell, and images closer than symprec (fractional, minimum
//image) to a site already generated are dropped. If the earlier site comes
//from a different basis site, it takes the species and occupancy of the later
//one.
func ExpandBasis(cell, basis *v3.Matrix, numbers []int, occs []float64, ops []SymOp, symprec float64) (*Structure, error) {
	nb := basis.NVecs()
	if nb == 0 {
		return nil, fmt.Errorf("goCrystal: ExpandBasis: no basis sites")
	}
	if len(numbers) != nb || (occs != nil && len(occs) != nb) {
		return nil, fmt.Errorf("goCrystal: ExpandBasis: %d basis sites, %d atomic numbers and %d occupancies", nb, len(numbers), len(occs))
	}
	if len(ops) == 0 {
		ops = []SymOp{{Rot: identity}}
	}
	var sites [][3]float64
	var kinds []int
	for k := 0; k < nb; k++ {
		b := basis.Vec(k)
	images:
		for _, o := range ops {
			p := v3.WrapVec(o.Apply(b))
			for j, q := range sites {
				d := v3.MinImage(v3.Sub(p, q))
				if math.Abs(d[0]) < symprec && math.Abs(d[1]) < symprec && math.Abs(d[2]) < symprec {
					kinds[j] = k
					continue images
				}
			}
			sites = append(sites, p)
			kinds = append(kinds, k)
		}
	}
	frac := v3.Zeros(len(sites))
	nums := make([]int, len(sites))
	occ := make([]float64, len(sites))
	for i, p := range sites {
		frac.SetVec(i, p)
		nums[i] = numbers[kinds[i]]
		occ[i] = 1
		if occs != nil {
			occ[i] = occs[kinds[i]]
		}
	}
	S, err := NewStructure(cell, frac, nums)
	if err != nil {
		return nil, err
	}
	if err := S.SetOccupancies(occ); err != nil {
		return nil, err
	}
	return S, nil
}

//Hall symbols of the standard settings, by space group number.
var hallSymbols = [231]string{
	1: `P 1`,
	2: `-P 1`,
	3: `P 2y`,
	4: `P 2yb`,
	5: `C 2y`,
	6: `P -2y`,
	7: `P -2yc`,
	8: `C -2y`,
	9: `C -2yc`,
	10: `-P 2y`,
	11: `-P 2yb`,
	12: `-C 2y`,
	13: `-P 2yc`,
	14: `-P 2ybc`,
	15: `-C 2yc`,
	16: `P 2 2`,
	17: `P 2c 2`,
	18: `P 2 2ab`,
	19: `P 2ac 2ab`,
	20: `C 2c 2`,
	21: `C 2 2`,
	22: `F 2 2`,
	23: `I 2 2`,
	24: `I 2b 2c`,
	25: `P 2 -2`,
	26: `P 2c -2`,
	27: `P 2 -2c`,
	28: `P 2 -2a`,
	29: `P 2c -2ac`,
	30: `P 2 -2bc`,
	31: `P 2ac -2`,
	32: `P 2 -2ab`,
	33: `P 2c -2n`,
	34: `P 2 -2n`,
	35: `C 2 -2`,
	36: `C 2c -2`,
	37: `C 2 -2c`,
	38: `A 2 -2`,
	39: `A 2 -2c`,
	40: `A 2 -2a`,
	41: `A 2 -2ac`,
	42: `F 2 -2`,
	43: `F 2 -2d`,
	44: `I 2 -2`,
	45: `I 2 -2c`,
	46: `I 2 -2a`,
	47: `-P 2 2`,
	48: `P 2 2 -1n`,
	49: `-P 2 2c`,
	50: `P 2 2 -1ab`,
	51: `-P 2a 2a`,
	52: `-P 2a 2bc`,
	53: `-P 2ac 2`,
	54: `-P 2a 2ac`,
	55: `-P 2 2ab`,
	56: `-P 2ab 2ac`,
	57: `-P 2c 2b`,
	58: `-P 2 2n`,
	59: `P 2 2ab -1ab`,
	60: `-P 2n 2ab`,
	61: `-P 2ac 2ab`,
	62: `-P 2ac 2n`,
	63: `-C 2c 2`,
	64: `-C 2bc 2`,
	65: `-C 2 2`,
	66: `-C 2 2c`,
	67: `-C 2b 2`,
	68: `C 2 2 -1bc`,
	69: `-F 2 2`,
	70: `F 2 2 -1d`,
	71: `-I 2 2`,
	72: `-I 2 2c`,
	73: `-I 2b 2c`,
	74: `-I 2b 2`,
	75: `P 4`,
	76: `P 4w`,
	77: `P 4c`,
	78: `P 4cw`,
	79: `I 4`,
	80: `I 4bw`,
	81: `P -4`,
	82: `I -4`,
	83: `-P 4`,
	84: `-P 4c`,
	85: `P 4ab -1ab`,
	86: `P 4n -1n`,
	87: `-I 4`,
	88: `I 4bw -1bw`,
	89: `P 4 2`,
	90: `P 4ab 2ab`,
	91: `P 4w 2c`,
	92: `P 4abw 2nw`,
	93: `P 4c 2`,
	94: `P 4n 2n`,
	95: `P 4cw 2c`,
	96: `P 4nw 2abw`,
	97: `I 4 2`,
	98: `I 4bw 2bw`,
	99: `P 4 -2`,
	100: `P 4 -2ab`,
	101: `P 4c -2c`,
	102: `P 4n -2n`,
	103: `P 4 -2c`,
	104: `P 4 -2n`,
	105: `P 4c -2`,
	106: `P 4c -2ab`,
	107: `I 4 -2`,
	108: `I 4 -2c`,
	109: `I 4bw -2`,
	110: `I 4bw -2c`,
	111: `P -4 2`,
	112: `P -4 2c`,
	113: `P -4 2ab`,
	114: `P -4 2n`,
	115: `P -4 -2`,
	116: `P -4 -2c`,
	117: `P -4 -2ab`,
	118: `P -4 -2n`,
	119: `I -4 -2`,
	120: `I -4 -2c`,
	121: `I -4 2`,
	122: `I -4 2bw`,
	123: `-P 4 2`,
	124: `-P 4 2c`,
	125: `P 4 2 -1ab`,
	126: `P 4 2 -1n`,
	127: `-P 4 2ab`,
	128: `-P 4 2n`,
	129: `P 4ab 2ab -1ab`,
	130: `P 4ab 2n -1ab`,
	131: `-P 4c 2`,
	132: `-P 4c 2c`,
	133: `P 4n 2c -1n`,
	134: `P 4n 2 -1n`,
	135: `-P 4c 2ab`,
	136: `-P 4n 2n`,
	137: `P 4n 2n -1n`,
	138: `P 4n 2ab -1n`,
	139: `-I 4 2`,
	140: `-I 4 2c`,
	141: `I 4bw 2bw -1bw`,
	142: `I 4bw 2aw -1bw`,
	143: `P 3`,
	144: `P 31`,
	145: `P 32`,
	146: `R 3`,
	147: `-P 3`,
	148: `-R 3`,
	149: `P 3 2`,
	150: `P 3 2"`,
	151: `P 31 2c (0 0 1)`,
	152: `P 31 2"`,
	153: `P 32 2c (0 0 -1)`,
	154: `P 32 2"`,
	155: `R 3 2"`,
	156: `P 3 -2"`,
	157: `P 3 -2`,
	158: `P 3 -2"c`,
	159: `P 3 -2c`,
	160: `R 3 -2"`,
	161: `R 3 -2"c`,
	162: `-P 3 2`,
	163: `-P 3 2c`,
	164: `-P 3 2"`,
	165: `-P 3 2"c`,
	166: `-R 3 2"`,
	167: `-R 3 2"c`,
	168: `P 6`,
	169: `P 61`,
	170: `P 65`,
	171: `P 62`,
	172: `P 64`,
	173: `P 6c`,
	174: `P -6`,
	175: `-P 6`,
	176: `-P 6c`,
	177: `P 6 2`,
	178: `P 61 2 (0 0 -1)`,
	179: `P 65 2 (0 0 1)`,
	180: `P 62 2c (0 0 1)`,
	181: `P 64 2c (0 0 -1)`,
	182: `P 6c 2c`,
	183: `P 6 -2`,
	184: `P 6 -2c`,
	185: `P 6c -2`,
	186: `P 6c -2c`,
	187: `P -6 2`,
	188: `P -6c 2`,
	189: `P -6 -2`,
	190: `P -6c -2c`,
	191: `-P 6 2`,
	192: `-P 6 2c`,
	193: `-P 6c 2`,
	194: `-P 6c 2c`,
	195: `P 2 2 3`,
	196: `F 2 2 3`,
	197: `I 2 2 3`,
	198: `P 2ac 2ab 3`,
	199: `I 2b 2c 3`,
	200: `-P 2 2 3`,
	201: `P 2 2 3 -1n`,
	202: `-F 2 2 3`,
	203: `F 2 2 3 -1d`,
	204: `-I 2 2 3`,
	205: `-P 2ac 2ab 3`,
	206: `-I 2b 2c 3`,
	207: `P 4 2 3`,
	208: `P 4n 2 3`,
	209: `F 4 2 3`,
	210: `F 4d 2 3`,
	211: `I 4 2 3`,
	212: `P 4acd 2ab 3`,
	213: `P 4bd 2ab 3`,
	214: `I 4bd 2c 3`,
	215: `P -4 2 3`,
	216: `F -4 2 3`,
	217: `I -4 2 3`,
	218: `P -4n 2 3`,
	219: `F -4c 2 3`,
	220: `I -4bd 2c 3`,
	221: `-P 4 2 3`,
	222: `P 4 2 3 -1n`,
	223: `-P 4n 2 3`,
	224: `P 4n 2 3 -1n`,
	225: `-F 4 2 3`,
	226: `-F 4c 2 3`,
	227: `F 4d 2 3 -1d`,
	228: `F 4d 2 3 -1cd`,
	229: `-I 4 2 3`,
	230: `-I 4bd 2c 3`,
}

//Hall symbols of the rhombohedral groups in rhombohedral axes.
var rhombohedralHall = map[int]string{
	146: `P 3*`,
	148: `-P 3*`,
	155: `P 3* 2`,
	160: `P 3* -2`,
	161: `P 3* -2n`,
	166: `-P 3* 2`,
	167: `-P 3* 2n`,
}
