/*
 * files.go, part of gocrystal.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/gocrystal/v3"
)

//XYZRead reads a structure from an extended XYZ file. The comment line
//must contain the Lattice; other key=value pairs go to the metadata.
func XYZRead(xyzname string) (*Structure, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, err
	}
	defer xyzfile.Close()
	S, err := XYZDecode(xyzfile)
	if err != nil {
		return nil, fmt.Errorf("goCrystal: file %s: %w", xyzname, err)
	}
	return S, nil
}

//XYZDecode reads a structure in the extended XYZ format from r.
func XYZDecode(r io.Reader) (*Structure, error) {
	xyz := bufio.NewReader(r)
	line, err := xyz.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("ill formatted XYZ file")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, fmt.Errorf("ill formatted XYZ file: bad number of atoms %q", strings.TrimSpace(line))
	}
	comment, err := xyz.ReadString('\n')
	if err != nil && comment == "" {
		return nil, fmt.Errorf("ill formatted XYZ file: no comment line")
	}
	pairs := keyValues(comment)
	lattice, ok := pairs["Lattice"]
	if !ok {
		return nil, fmt.Errorf("no Lattice in the extended XYZ comment line")
	}
	lf := strings.Fields(lattice)
	if len(lf) != 9 {
		return nil, fmt.Errorf("the Lattice needs 9 numbers, got %d", len(lf))
	}
	ld := make([]float64, 9)
	for i, v := range lf {
		if ld[i], err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("bad Lattice: %w", err)
		}
	}
	cell, _ := v3.NewMatrix(ld)
	cart := v3.Zeros(natoms)
	numbers := make([]int, natoms)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		fields := strings.Fields(line)
		if len(fields) < 4 {
			if err != nil {
				return nil, fmt.Errorf("expected %d atoms, got %d", natoms, i)
			}
			return nil, fmt.Errorf("line number %d ill formed", i+3)
		}
		if numbers[i], err = Symbol2Number(fields[0]); err != nil {
			return nil, err
		}
		var c [3]float64
		for j := range c {
			if c[j], err = strconv.ParseFloat(fields[j+1], 64); err != nil {
				return nil, fmt.Errorf("line number %d: %w", i+3, err)
			}
		}
		cart.SetVec(i, c)
	}
	S, err := NewStructureCartesian(cell, cart, numbers)
	if err != nil {
		return nil, err
	}
	for k, v := range pairs {
		if k != "Lattice" && k != "Properties" {
			S.SetInfo(k, v)
		}
	}
	return S, nil
}

//XYZWrite writes S to an extended XYZ file with name xyzname which will
//be created for that. If the file exists it will be overwritten.
func XYZWrite(S *Structure, xyzname string) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return err
	}
	if err := XYZEncode(out, S); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

//XYZEncode writes S to w in the extended XYZ format, with Cartesian coordinates
//in Angstrom and the metadata in the comment line.
func XYZEncode(w io.Writer, S *Structure) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%-4d\n", S.Len())
	l := S.cell.Flat()
	ls := make([]string, len(l))
	for i, v := range l {
		ls[i] = strconv.FormatFloat(v, 'f', 8, 64)
	}
	fmt.Fprintf(bw, "Lattice=\"%s\" Properties=species:S:1:pos:R:3", strings.Join(ls, " "))
	for _, k := range S.InfoKeys() {
		v := S.info[k]
		if strings.ContainsAny(v, " \t") || v == "" {
			v = strconv.Quote(v)
		}
		fmt.Fprintf(bw, " %s=%s", k, v)
	}
	bw.WriteString("\n")
	cart := S.Cartesian()
	for i := 0; i < S.Len(); i++ {
		c := cart.Vec(i)
		fmt.Fprintf(bw, "%-2s  %14.8f %14.8f %14.8f\n", S.Symbol(i), c[0], c[1], c[2])
	}
	return bw.Flush()
}

//keyValues parses the key=value pairs of an extended XYZ comment line.
//Values may be double-quoted.
func keyValues(line string) map[string]string {
	ret := make(map[string]string)
	line = strings.TrimSpace(line)
	for line != "" {
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(line[:eq])
		line = line[eq+1:]
		var val string
		if strings.HasPrefix(line, "\"") {
			end := strings.IndexByte(line[1:], '"')
			if end < 0 {
				val, line = line[1:], ""
			} else {
				val, line = line[1:end+1], line[end+2:]
			}
		} else {
			end := strings.IndexAny(line, " \t")
			if end < 0 {
				val, line = line, ""
			} else {
				val, line = line[:end], line[end:]
			}
		}
		if i := strings.LastIndexAny(key, " \t"); i >= 0 {
			key = key[i+1:]
		}
		ret[key] = val
		line = strings.TrimSpace(line)
	}
	return ret
}
