/*
 * pcrystal.go, part of gocrystal.
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

package qm

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	crystal "github.com/rmera/gocrystal"
)

//Basis is a CRYSTAL basis set for one element, verbatim.
type Basis struct {
	Element     string
	Content     string
	AllElectron bool //false if the basis carries an effective core potential
}

//Code is the conventional atomic number CRYSTAL uses to pair an atom
//with its basis set. ECP basis sets are labeled 200+Z.
func (B Basis) Code() int {
	z, _ := crystal.Symbol2Number(B.Element)
	if B.AllElectron {
		return z
	}
	return 200 + z
}

//LoadBasisSets reads every <El>.basis file in dir. The returned map
//is indexed by element symbol.
func LoadBasisSets(dir string) (map[string]Basis, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("qm: no folder %s with the basis sets found: %w", dir, err)
	}
	ret := make(map[string]Basis)
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".basis") {
			continue
		}
		el := strings.Split(name, ".")[0]
		if _, err := crystal.Symbol2Number(el); err != nil {
			return nil, fmt.Errorf("qm: unexpected basis set file %s", name)
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		content := strings.TrimSpace(string(data))
		ae, err := allElectron(content)
		if err != nil {
			return nil, fmt.Errorf("qm: basis set file %s: %w", name, err)
		}
		ret[el] = Basis{Element: el, Content: content, AllElectron: ae}
	}
	return ret, nil
}

//The first line of a CRYSTAL basis holds the conventional atomic number
//and the number of shells. Numbers above 200 mean an ECP.
func allElectron(content string) (bool, error) {
	fields := strings.Fields(strings.SplitN(content, "\n", 2)[0])
	if len(fields) < 2 {
		return false, fmt.Errorf("malformed header")
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return false, fmt.Errorf("malformed header: %w", err)
	}
	return code < 200, nil
}

//DFT are the settings of the DFT block of a CRYSTAL input.
type DFT struct {
	XC       string `yaml:"xc"`
	Grid     string `yaml:"grid"`
	Spin     bool   `yaml:"spin"`
	TollDens int    `yaml:"tolldens"`
	TollGrid int    `yaml:"tollgrid"`
}

//CrystalParams are the settings of a CRYSTAL calculation.
type CrystalParams struct {
	Label    string   `yaml:"label"`
	DFT      DFT      `yaml:"dft"`
	Shrink   []int    `yaml:"shrink"`
	TolInteg []int    `yaml:"tolinteg"`
	TolDEE   int      `yaml:"toldee"`
	MaxCycle int      `yaml:"maxcycle"`
	FMixing  int      `yaml:"fmixing"`
	Extra    []string `yaml:"extra"` //verbatim keywords for the SCF block
}

//Template is a calculation setup read from YAML, of the form
//
//	default:
//	  crystal:
//	    dft: {xc: PBE0, grid: XLGRID}
//	    shrink: [8, 8]
type Template struct {
	Default struct {
		Crystal CrystalParams `yaml:"crystal"`
	} `yaml:"default"`
}

//DefaultTemplate returns the standard setup: PBE0 on an XLGRID, with
//tight tolerances.
func DefaultTemplate() *Template {
	T := new(Template)
	T.Default.Crystal = CrystalParams{
		DFT:      DFT{XC: "PBE0", Grid: "XLGRID", TollDens: 8, TollGrid: 16},
		Shrink:   []int{8, 8},
		TolInteg: []int{8, 8, 8, 8, 16},
		TolDEE:   9,
		MaxCycle: 200,
		FMixing:  80,
	}
	return T
}

//LoadTemplate reads a template from a YAML file. The file must contain
//the default.crystal section.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("qm: reading template: %w", err)
	}
	T := new(Template)
	if err := yaml.Unmarshal(data, T); err != nil {
		return nil, fmt.Errorf("qm: parsing template %s: %w", path, err)
	}
	if T.Default.Crystal.DFT.XC == "" && len(T.Default.Crystal.Extra) == 0 {
		return nil, fmt.Errorf("qm: template %s has no default.crystal section", path)
	}
	return T, nil
}

//TolInteg returns the TOLINTEG thresholds for A. Structures with Ta, Se or
//P get 8 8 8 8 16, those with Sb (and none of the former) get
//10 10 10 10 16. For anything else, def is returned.
func TolInteg(A crystal.Atomer, def []int) []int {
	var sb bool
	for i := 0; i < A.Len(); i++ {
		switch A.Symbol(i) {
		case "Ta", "Se", "P":
			return []int{8, 8, 8, 8, 16}
		case "Sb":
			sb = true
		}
	}
	if sb {
		return []int{10, 10, 10, 10, 16}
	}
	return def
}

//Pcrystal sets up calculations for the (parallel) CRYSTAL program.
type Pcrystal struct {
	name     string
	basis    map[string]Basis
	template *Template
}

//NewPcrystal returns a handle with the given basis sets and template.
//A nil template means DefaultTemplate.
func NewPcrystal(basis map[string]Basis, template *Template) *Pcrystal {
	if template == nil {
		template = DefaultTemplate()
	}
	return &Pcrystal{basis: basis, template: template}
}

func (P *Pcrystal) SetName(name string) {
	P.name = name
}

//Validate returns an error if there is no basis set for some of the elements in S.
func (P *Pcrystal) Validate(S *crystal.Structure) error {
	return P.validate(S)
}

func (P *Pcrystal) validate(A crystal.Atomer) error {
	available := make([]string, 0, len(P.basis))
	for k := range P.basis {
		available = append(available, k)
	}
	if missing := crystal.Missing(A, available); len(missing) > 0 {
		return fmt.Errorf("qm: element %s is not supported", missing[0])
	}
	return nil
}

//Fort34 returns the geometry of S in the CRYSTAL EXTERNAL (fort.34) format,
//as a P1 crystal with Cartesian coordinates in Angstrom.
func (P *Pcrystal) Fort34(S crystal.Lattice) (string, error) {
	if err := P.validate(S); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("   3   1   1\n")
	cell := S.Cell()
	for i := 0; i < 3; i++ {
		v := cell.Vec(i)
		fmt.Fprintf(&b, " %17.10E %17.10E %17.10E\n", v[0], v[1], v[2])
	}
	//only the identity
	b.WriteString("   1\n")
	for _, row := range [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, 0}} {
		fmt.Fprintf(&b, " %17.10E %17.10E %17.10E\n", row[0], row[1], row[2])
	}
	cart := S.Cartesian()
	fmt.Fprintf(&b, "   %d\n", S.Len())
	for i := 0; i < S.Len(); i++ {
		v := cart.Vec(i)
		fmt.Fprintf(&b, " %3d %17.10E %17.10E %17.10E\n", P.basis[S.Symbol(i)].Code(), v[0], v[1], v[2])
	}
	return b.String(), nil
}

//D12 returns the CRYSTAL input (INPUT, in the d12 format) for S. The geometry
//is read from fort.34, and the basis sets come in the order of first
//appearance of the elements.
func (P *Pcrystal) D12(S *crystal.Structure) (string, error) {
	if err := P.Validate(S); err != nil {
		return "", err
	}
	C := P.template.Default.Crystal
	C.TolInteg = TolInteg(S, C.TolInteg)
	var b strings.Builder
	label := P.name
	if label == "" {
		label = C.Label
	}
	if label == "" {
		label = "gocrystal"
	}
	b.WriteString(label + "\n")
	b.WriteString("EXTERNAL\nEND\n")
	for _, el := range S.Elements() {
		b.WriteString(P.basis[el].Content + "\n")
	}
	b.WriteString("99 0\nEND\n")
	if C.DFT.XC != "" {
		b.WriteString("DFT\n")
		if C.DFT.Spin {
			b.WriteString("SPIN\n")
		}
		b.WriteString(C.DFT.XC + "\n")
		if C.DFT.Grid != "" {
			b.WriteString(C.DFT.Grid + "\n")
		}
		if C.DFT.TollDens > 0 {
			fmt.Fprintf(&b, "TOLLDENS\n%d\n", C.DFT.TollDens)
		}
		if C.DFT.TollGrid > 0 {
			fmt.Fprintf(&b, "TOLLGRID\n%d\n", C.DFT.TollGrid)
		}
		b.WriteString("END\n")
	}
	if len(C.Shrink) > 0 {
		b.WriteString("SHRINK\n")
		b.WriteString(joinInts(C.Shrink) + "\n")
	}
	if len(C.TolInteg) > 0 {
		b.WriteString("TOLINTEG\n")
		b.WriteString(joinInts(C.TolInteg) + "\n")
	}
	if C.TolDEE > 0 {
		fmt.Fprintf(&b, "TOLDEE\n%d\n", C.TolDEE)
	}
	if C.MaxCycle > 0 {
		fmt.Fprintf(&b, "MAXCYCLE\n%d\n", C.MaxCycle)
	}
	if C.FMixing > 0 {
		fmt.Fprintf(&b, "FMIXING\n%d\n", C.FMixing)
	}
	for _, e := range C.Extra {
		b.WriteString(strings.TrimSpace(e) + "\n")
	}
	b.WriteString("END\n")
	return b.String(), nil
}

//BuildInput writes fort.34 and INPUT for S in dir, creating dir if needed.
func (P *Pcrystal) BuildInput(S *crystal.Structure, dir string) error {
	f34, err := P.Fort34(S)
	if err != nil {
		return err
	}
	d12, err := P.D12(S)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "fort.34"), []byte(f34), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "INPUT"), []byte(d12), 0o644)
}

//Elements returns the symbols with a basis set, sorted.
func (P *Pcrystal) Elements() []string {
	ret := make([]string, 0, len(P.basis))
	for k := range P.basis {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//ConformingInput returns true if a d12 input uses the reference settings
//(PBE0, XLGRID and the tight tolerances of DefaultTemplate).
func ConformingInput(content string) bool {
	for _, s := range []string{"PBE0", "XLGRID", "TOLLDENS\n8", "TOLLGRID\n16", "TOLDEE\n9"} {
		if !strings.Contains(content, s) {
			return false
		}
	}
	return true
}

//InputType guesses the kind of calculation from a d12 input.
//It returns an empty string if it can't tell.
func InputType(content string) string {
	switch {
	case strings.Contains(content, "MOLECULE"):
		return "ISLD_ATOM"
	case strings.Contains(content, "FREQCALC"):
		return "PHONON"
	case strings.Contains(content, "ELASTCON"), strings.Contains(content, "ELAPIEZO"):
		return "ELASTIC"
	case strings.Contains(content, "OPTGEOM"):
		return "STRUCT"
	}
	return ""
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, j := range v {
		s[i] = strconv.Itoa(j)
	}
	return strings.Join(s, " ")
}
