package consensus

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ReadRecords reads a FASTA or FASTQ file (by its path on the local fs)
// into a slice of named sequence records
func ReadRecords(filename string) ([]Fragment, error) {
	dat, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %v", err)
	}
	file := string(dat)

	if strings.HasPrefix(file, "@") {
		return readFastq(filename, file)
	}

	return readFasta(filename, file)
}

// readFasta parses a multifasta file to sequence records
func readFasta(filename, contents string) (records []Fragment, err error) {
	lines := strings.Split(contents, "\n")

	var headerIndices []int
	var ids []string
	for i, line := range lines {
		if strings.HasPrefix(line, ">") {
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("failed to parse %s: header with no name on line %d", filename, i+1)
			}
			headerIndices = append(headerIndices, i)
			ids = append(ids, fields[0])
		}
	}

	// create a regex for cleaning the sequence
	var unwantedChars = regexp.MustCompile(`(?im)[^atgcn]|\W`)

	// accumulate the sequences from between the headers
	var seqs []string
	for i, headerIndex := range headerIndices {
		nextLine := len(lines)
		if i < len(headerIndices)-1 {
			nextLine = headerIndices[i+1]
		}
		seqLines := lines[headerIndex+1 : nextLine]
		seqJoined := strings.Join(seqLines, "")
		seq := unwantedChars.ReplaceAllString(seqJoined, "")
		seqs = append(seqs, strings.ToUpper(seq))
	}

	for i, id := range ids {
		records = append(records, Fragment{
			ID:  id,
			Seq: seqs[i],
		})
	}

	if len(records) < 1 {
		return records, fmt.Errorf("failed to parse sequence record(s) from %s", filename)
	}

	return
}

// readFastq parses a fastq file to sequence records. Only the plain
// four-line layout is supported (no wrapped sequences)
func readFastq(filename, contents string) (records []Fragment, err error) {
	lines := strings.Split(strings.TrimRight(contents, "\n"), "\n")

	for i := 0; i+3 < len(lines); i += 4 {
		if !strings.HasPrefix(lines[i], "@") {
			return nil, fmt.Errorf("failed to parse %s: expected @ header on line %d", filename, i+1)
		}

		fields := strings.Fields(lines[i][1:])
		if len(fields) == 0 {
			return nil, fmt.Errorf("failed to parse %s: header with no name on line %d", filename, i+1)
		}

		records = append(records, Fragment{
			ID:   fields[0],
			Seq:  strings.ToUpper(lines[i+1]),
			Qual: lines[i+3],
		})
	}

	if len(records) < 1 {
		return records, fmt.Errorf("failed to parse sequence record(s) from %s", filename)
	}

	return
}

// ReadLayout parses a component layout file against the records it refers
// into. Each line holds one read placement:
//
//	componentIndex	readIndex	strand(+/-)	begin	end
//
// Lines starting with # are skipped. The returned components are sorted
// by index
func ReadLayout(filename string, records []Fragment) ([]Component, error) {
	dat, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %v", err)
	}

	byIndex := map[int][]Read{}
	scanner := bufio.NewScanner(strings.NewReader(string(dat)))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) != 5 {
			return nil, fmt.Errorf("failed to parse layout line %d: expected 5 columns, got %d", lineNo, len(cols))
		}

		ccIndex, err := strconv.Atoi(cols[0])
		if err != nil {
			return nil, fmt.Errorf("failed to parse component index on layout line %d: %v", lineNo, err)
		}

		readIndex, err := strconv.Atoi(cols[1])
		if err != nil {
			return nil, fmt.Errorf("failed to parse read index on layout line %d: %v", lineNo, err)
		}
		if readIndex < 0 || readIndex >= len(records) {
			return nil, fmt.Errorf("read index %d on layout line %d is out of range (%d reads)", readIndex, lineNo, len(records))
		}

		var strand bool
		switch cols[2] {
		case "+", "1":
			strand = true
		case "-", "0":
			strand = false
		default:
			return nil, fmt.Errorf("failed to parse strand %q on layout line %d", cols[2], lineNo)
		}

		begin, err := strconv.Atoi(cols[3])
		if err != nil {
			return nil, fmt.Errorf("failed to parse begin position on layout line %d: %v", lineNo, err)
		}

		end, err := strconv.Atoi(cols[4])
		if err != nil {
			return nil, fmt.Errorf("failed to parse end position on layout line %d: %v", lineNo, err)
		}

		rec := records[readIndex]
		byIndex[ccIndex] = append(byIndex[ccIndex], Read{
			ID:     rec.ID,
			Seq:    rec.Seq,
			Qual:   rec.Qual,
			Strand: strand,
			Begin:  begin,
			End:    end,
		})
	}

	var components []Component
	for idx, reads := range byIndex {
		components = append(components, Component{Index: idx, Reads: reads})
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].Index < components[j].Index
	})

	return components, nil
}

// componentDir is the staging directory for one connected component
func componentDir(root string, cc int) string {
	return path.Join(root, fmt.Sprintf("cc_%d", cc))
}

// windowInputPath is the alignment input file for one window, keyed by
// (componentIndex, windowIndex) so concurrent windows never collide
func windowInputPath(root string, cc, w int, format string) string {
	return path.Join(componentDir(root, cc), fmt.Sprintf("poa_in_cc_%d_win_%d.%s", cc, w, format))
}

// seamInputPath is the alignment input file used when splicing the w-th
// window's consensus onto the running consensus
func seamInputPath(root string, cc, w int) string {
	return path.Join(componentDir(root, cc), fmt.Sprintf("poa_in_cons_cc_%d_win_%d.fasta", cc, w))
}

// engineOutPath is the engine's output file for an input file
func engineOutPath(in string) string {
	return in + ".cnsns"
}

// consensusPath is the final consensus record for one component
func consensusPath(root string, cc int) string {
	return path.Join(root, fmt.Sprintf("consensus_cc_%d.fasta", cc))
}

// writeFragments writes sequence records to a staging file in the
// requested format. Fastq records without a quality line get a uniform
// placeholder quality
func writeFragments(filename string, fragments []Fragment, format string) error {
	var buf strings.Builder
	for _, f := range fragments {
		if format == "fastq" {
			qual := f.Qual
			if len(qual) != len(f.Seq) {
				qual = strings.Repeat("I", len(f.Seq))
			}
			fmt.Fprintf(&buf, "@%s\n%s\n+\n%s\n", f.ID, f.Seq, qual)
		} else {
			fmt.Fprintf(&buf, ">%s\n%s\n", f.ID, f.Seq)
		}
	}

	if err := os.WriteFile(filename, []byte(buf.String()), 0666); err != nil {
		return fmt.Errorf("failed to write staging file %s: %v", filename, err)
	}
	return nil
}

// writeConsensus writes one component's final consensus record,
// overwriting any record from an earlier run
func writeConsensus(root string, cc int, cons string) error {
	record := fmt.Sprintf(">consensus_from_windows_contig_%d\n%s\n", cc, cons)
	filename := consensusPath(root, cc)

	if err := os.WriteFile(filename, []byte(record), 0666); err != nil {
		return fmt.Errorf("failed to write the consensus record %s: %v", filename, err)
	}
	return nil
}
