/*
 * output.go, part of gocrystal.
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
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//CrystalOutput reads a CRYSTAL output file and returns the total energy, in eV,
//from the last "SCF ENDED" line, and the elapsed time in seconds, from the last
//TELAPSE entry. If the SCF didn't converge, the energy is returned together with
//ErrProbableProblem.
func CrystalOutput(path string) (Output, error) {
	var ret Output
	f, err := os.Open(path)
	if err != nil {
		return ret, err
	}
	defer f.Close()
	var found, converged bool
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "SCF ENDED") {
			e, err := fieldAfter(line, "E(AU)")
			if err != nil {
				return ret, fmt.Errorf("qm: %s: %w", path, err)
			}
			ret.Energy = e * Hartree2eV
			found = true
			converged = strings.Contains(line, "CONVERGENCE")
		}
		if strings.Contains(line, "TELAPSE") {
			if t, err := fieldAfter(line, "TELAPSE"); err == nil {
				ret.Duration = t
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return ret, err
	}
	if !found {
		return ret, fmt.Errorf("qm: %s: output does not contain energy", path)
	}
	if !converged {
		return ret, ErrProbableProblem
	}
	return ret, nil
}

//fieldAfter parses the number that follows the given token in line.
func fieldAfter(line, token string) (float64, error) {
	fields := strings.Fields(line)
	for i, v := range fields {
		if v == token && i+1 < len(fields) {
			return strconv.ParseFloat(strings.Replace(fields[i+1], "D", "E", 1), 64)
		}
	}
	return 0, fmt.Errorf("no %s value in line %q", token, line)
}

//ParseTree reads the OUTPUT file in each sub-directory of dir. The label of
//each result is the name of its sub-directory. Sub-directories without an
//OUTPUT file, and outputs that can't be read, are logged and skipped.
//Unconverged calculations are logged but kept.
func ParseTree(dir string) ([]Output, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	var ret []Output
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name(), "OUTPUT")
		if _, err := os.Stat(path); err != nil {
			log.Printf("Warning: No OUTPUT file found in %s", filepath.Join(dir, e.Name()))
			continue
		}
		o, err := CrystalOutput(path)
		if errors.Is(err, ErrProbableProblem) {
			log.Printf("Warning: %s: %v", path, err)
		} else if err != nil {
			log.Printf("Error processing %s: %v", path, err)
			continue
		}
		if in, err := os.ReadFile(filepath.Join(dir, e.Name(), "INPUT")); err == nil && !ConformingInput(string(in)) {
			log.Printf("Warning: %s: the input settings differ from the reference ones (%s)", e.Name(), InputType(string(in)))
		}
		o.Label = e.Name()
		ret = append(ret, o)
	}
	return ret, nil
}
