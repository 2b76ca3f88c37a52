package app

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"logwriter/cmd/walctl/app/options"
	"logwriter/pkg/wal/log"
	"logwriter/pkg/wal/logfile"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

const previewSize = 24

func runDump(opts *options.LogOptions, out io.Writer) error {
	r, c, err := logfile.Open(opts.Dir, opts.Number)
	if err != nil {
		return err
	}
	defer c.Close()

	table := uitable.New()
	table.MaxColWidth = 64
	table.AddRow("OFFSET", "TYPE", "LENGTH", "CHECKSUM", "LOG", "PAYLOAD")

	for {
		rec, err := r.ReadPhysicalRecord()
		if err == io.EOF {
			break
		}
		if errors.Is(err, log.ErrStaleRecord) {
			table.AddRow(rec.Offset, color.YellowString("stale"), len(rec.Payload),
				fmt.Sprintf("%08x", rec.Checksum), rec.LogNumber, "")
			break
		}
		if err != nil {
			fmt.Fprintln(out, table)
			return err
		}

		logNumber := "-"
		if rec.Type.IsRecyclable() {
			logNumber = strconv.FormatUint(uint64(rec.LogNumber), 10)
		}
		table.AddRow(rec.Offset, rec.Type, len(rec.Payload),
			fmt.Sprintf("%08x", rec.Checksum), logNumber, preview(rec.Payload))
	}
	fmt.Fprintln(out, table)
	return nil
}

func preview(payload []byte) string {
	if len(payload) > previewSize {
		return strconv.Quote(string(payload[:previewSize])) + "..."
	}
	return strconv.Quote(string(payload))
}
