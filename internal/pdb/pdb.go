// Package pdb decodes the subset of the PDB structure format needed for
// dataset selection: header metadata and the model/chain/residue hierarchy.
// It is not a general PDB parser; records it does not know are skipped.
package pdb

import (
	"bufio"
	"bytes"
	"errors"
	"strconv"
	"strings"
)

// Structure is a decoded structure file: header metadata plus one or more
// models (X-ray entries have one, NMR ensembles several).
type Structure struct {
	Header Header
	Models []*Model
}

// Header holds the file-level metadata records.
type Header struct {
	IDCode         string
	Classification string
	Title          string
	Method         string
	Resolution     *float64 // nil when the file reports none
	Keywords       []string
}

// Model is one coordinate model.
type Model struct {
	Serial int
	Chains []*Chain
}

// Chain is one polymer chain within a model.
type Chain struct {
	ID       byte
	Residues []Residue
}

// Residue is one monomer unit. Het marks HETATM-derived residues
// (waters, ligands, modified groups); standard amino acids have Het false.
type Residue struct {
	Name  string
	Seq   int
	ICode byte
	Het   bool
}

// Parse decodes a structure file. It fails only when the data contains no
// atom records at all; malformed individual lines are skipped.
func Parse(data []byte) (*Structure, error) {
	st := &Structure{}

	var (
		cur          *Model
		titleParts   []string
		methodParts  []string
		keywordParts []string
	)

	newModel := func(serial int) *Model {
		m := &Model{Serial: serial}
		st.Models = append(st.Models, m)
		return m
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "HEADER"):
			if len(line) >= 50 {
				st.Header.Classification = strings.TrimSpace(line[10:50])
			} else if len(line) > 10 {
				st.Header.Classification = strings.TrimSpace(line[10:])
			}
			if len(line) >= 66 {
				st.Header.IDCode = strings.TrimSpace(line[62:66])
			}

		case strings.HasPrefix(line, "TITLE"):
			if len(line) > 10 {
				titleParts = appendPart(titleParts, line[10:])
			}

		case strings.HasPrefix(line, "EXPDTA"):
			if len(line) > 10 {
				methodParts = appendPart(methodParts, line[10:])
			}

		case strings.HasPrefix(line, "KEYWDS"):
			if len(line) > 10 {
				keywordParts = appendPart(keywordParts, line[10:])
			}

		case strings.HasPrefix(line, "REMARK   2 "):
			// REMARK   2 RESOLUTION.    1.74 ANGSTROMS.
			// "NOT APPLICABLE" (and the bare banner line) leave it nil.
			fs := strings.Fields(line)
			if len(fs) >= 4 && fs[2] == "RESOLUTION." {
				if v, err := strconv.ParseFloat(fs[3], 64); err == nil {
					st.Header.Resolution = &v
				}
			}

		case strings.HasPrefix(line, "MODEL"):
			serial := len(st.Models) + 1
			if len(line) >= 14 {
				if v, err := strconv.Atoi(strings.TrimSpace(line[10:14])); err == nil {
					serial = v
				}
			}
			cur = newModel(serial)

		case strings.HasPrefix(line, "ENDMDL"):
			cur = nil

		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			if len(line) < 27 {
				continue
			}
			seq, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
			if err != nil {
				continue
			}
			// Files without MODEL records carry a single implicit model.
			if cur == nil {
				cur = newModel(len(st.Models) + 1)
			}
			res := Residue{
				Name:  strings.TrimSpace(line[17:20]),
				Seq:   seq,
				ICode: line[26],
				Het:   strings.HasPrefix(line, "HETATM"),
			}
			addResidue(cur, line[21], res)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(st.Models) == 0 {
		return nil, errors.New("no atom records found")
	}

	st.Header.Title = strings.Join(titleParts, " ")
	st.Header.Method = strings.Join(methodParts, " ")
	st.Header.Keywords = splitKeywords(keywordParts)

	return st, nil
}

// appendPart accumulates a record continuation, dropping blank segments.
func appendPart(parts []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return parts
	}
	return append(parts, s)
}

// addResidue appends res to the chain with the given id, starting a new
// residue only when the (seq, icode) identity changes. Alternate-location
// conformers repeat the identity on consecutive atom lines and collapse
// into a single residue.
func addResidue(m *Model, chainID byte, res Residue) {
	var chain *Chain
	for _, c := range m.Chains {
		if c.ID == chainID {
			chain = c
			break
		}
	}
	if chain == nil {
		chain = &Chain{ID: chainID}
		m.Chains = append(m.Chains, chain)
	}

	if n := len(chain.Residues); n > 0 {
		last := chain.Residues[n-1]
		if last.Seq == res.Seq && last.ICode == res.ICode && last.Name == res.Name {
			return
		}
	}
	chain.Residues = append(chain.Residues, res)
}

func splitKeywords(parts []string) []string {
	if len(parts) == 0 {
		return nil
	}
	var out []string
	for _, kw := range strings.Split(strings.Join(parts, " "), ",") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
