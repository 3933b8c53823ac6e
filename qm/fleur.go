/*
 * fleur.go, part of gocrystal.
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
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	crystal "github.com/rmera/gocrystal"
)

//LabelPlaceholder is the title written in the inpgen input. It is
//replaced by the job name in the XML input inpgen produces.
const LabelPlaceholder = "%ABSDX_%"

//Fleur sets up calculations for FLEUR through its input generator, inpgen.
type Fleur struct {
	name    string
	command string
}

//NewFleur returns a handle that runs the inpgen binary at $FLEUR_INPGEN_PATH.
func NewFleur() *Fleur {
	return &Fleur{command: os.Getenv("FLEUR_INPGEN_PATH")}
}

func (F *Fleur) SetName(name string) {
	F.name = name
}

//SetCommand sets the path to the inpgen binary.
func (F *Fleur) SetCommand(command string) {
	F.command = command
}

//Validate returns an error if S can't be written as an inpgen input,
//or if there is no inpgen binary to run.
func (F *Fleur) Validate(S *crystal.Structure) error {
	if S == nil || S.Len() == 0 {
		return fmt.Errorf("qm: no atoms for inpgen")
	}
	for i := 0; i < S.Len(); i++ {
		if S.Number(i) <= 0 {
			return fmt.Errorf("qm: atom %d has no element", i)
		}
	}
	if F.command == "" {
		return fmt.Errorf("qm: Fleur inpgen misconfiguration: FLEUR_INPGEN_PATH not set")
	}
	return nil
}

//Inpgen returns the inpgen text input for S: the lattice in Bohr and
//the sites in fractional coordinates.
func (F *Fleur) Inpgen(S crystal.Lattice) string {
	var b strings.Builder
	b.WriteString(LabelPlaceholder + "\n")
	b.WriteString("&input cartesian=F /\n")
	cell := S.Cell()
	for i := 0; i < 3; i++ {
		v := cell.Vec(i)
		fmt.Fprintf(&b, "%21.16f %21.16f %21.16f\n", v[0]/Bohr2Angstr, v[1]/Bohr2Angstr, v[2]/Bohr2Angstr)
	}
	b.WriteString("1.0\n1.0 1.0 1.0\n\n")
	fmt.Fprintf(&b, "%d\n", S.Len())
	frac := S.Frac()
	for i := 0; i < S.Len(); i++ {
		v := frac.Vec(i)
		fmt.Fprintf(&b, "%3d %21.16f %21.16f %21.16f\n", S.Number(i), v[0], v[1], v[2])
	}
	return b.String()
}

//BuildInput writes the inpgen input for S to dir/fleur.inp.
func (F *Fleur) BuildInput(S *crystal.Structure, dir string) error {
	if S == nil || S.Len() == 0 {
		return fmt.Errorf("qm: no atoms for inpgen")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "fleur.inp"), []byte(F.Inpgen(S)), 0o644)
}

//Run executes inpgen on the fleur.inp file in dir and returns the
//XML input it produces, with the job name in place of the placeholder.
func (F *Fleur) Run(ctx context.Context, dir string) (string, error) {
	if F.command == "" {
		return "", fmt.Errorf("qm: Fleur inpgen misconfiguration: FLEUR_INPGEN_PATH not set")
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, F.command, "-f", "fleur.inp", "-inc", "+all", "-noco")
	cmd.Dir = dir
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		log.Printf("Bad news: inpgen failed: %s", strings.TrimSpace(stderr.String()))
		return "", fmt.Errorf("qm: inpgen failed: %w", err)
	}
	xml, err := os.ReadFile(filepath.Join(dir, "inp.xml"))
	if err != nil {
		return "", fmt.Errorf("qm: inpgen produced no result: %w", err)
	}
	return strings.ReplaceAll(string(xml), LabelPlaceholder, F.name), nil
}

//XMLInput validates S and obtains its FLEUR XML input by running
//inpgen in a temporary directory.
func (F *Fleur) XMLInput(ctx context.Context, S *crystal.Structure) (string, error) {
	if err := F.Validate(S); err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "fleur_inpgen_")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)
	if err := F.BuildInput(S, dir); err != nil {
		return "", err
	}
	return F.Run(ctx, dir)
}

//ConvertInp runs inpgen on an existing text input, and moves the
//resulting inp.xml to xml/<stem>/<stem>.xml, next to the input.
//It returns the path of the XML file.
func (F *Fleur) ConvertInp(ctx context.Context, inp string) (string, error) {
	if F.command == "" {
		return "", fmt.Errorf("qm: Fleur inpgen misconfiguration: FLEUR_INPGEN_PATH not set")
	}
	dir := filepath.Dir(inp)
	stem := strings.TrimSuffix(filepath.Base(inp), filepath.Ext(inp))
	cmd := exec.CommandContext(ctx, F.command, "-f", filepath.Base(inp))
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("qm: inpgen failed for %s: %w (%s)", inp, err, strings.TrimSpace(string(out)))
	}
	generated := filepath.Join(dir, "inp.xml")
	if _, err := os.Stat(generated); err != nil {
		return "", fmt.Errorf("qm: inp.xml not found for %s", inp)
	}
	outdir := filepath.Join(dir, "xml", stem)
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return "", err
	}
	target := filepath.Join(outdir, stem+".xml")
	if err := os.Rename(generated, target); err != nil {
		return "", err
	}
	return target, nil
}
