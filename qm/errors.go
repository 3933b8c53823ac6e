/*
 * errors.go, part of gocrystal.
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
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//CollectErrors walks root looking for directories with both a fort.87 (the
//CRYSTAL error file) and an INPUT file. It returns, for each distinct error
//message, the first line (the title) of the INPUT of each failed calculation,
//in lexical order of the paths.
func CollectErrors(root string) (map[string][]string, error) {
	ret := make(map[string][]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "fort.87" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		title, err := firstLine(filepath.Join(filepath.Dir(path), "INPUT"))
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		msg := strings.TrimSpace(string(data))
		ret[msg] = append(ret[msg], title)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimSpace(line), nil
}
