// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/binary"
	"os"

	"github.com/cpmech/gosl/chk"
)

// ReadField reads a binary scalar field: three little-endian int32 grid
// dimensions followed by the float64 samples in row-major order
func ReadField(path string) (data []float64, n [3]int) {
	f, err := os.Open(path)
	if err != nil {
		chk.Panic("ReadField: cannot open field file %q", path)
	}
	defer f.Close()
	var dims [3]int32
	if err := binary.Read(f, binary.LittleEndian, &dims); err != nil {
		chk.Panic("ReadField: cannot read dimensions from %q\n%v", path, err)
	}
	for i, d := range dims {
		if d < 1 {
			chk.Panic("ReadField: %q has invalid dimension %d along axis %d", path, d, i)
		}
		n[i] = int(d)
	}
	data = make([]float64, n[0]*n[1]*n[2])
	if err := binary.Read(f, binary.LittleEndian, data); err != nil {
		chk.Panic("ReadField: cannot read %d samples from %q\n%v", len(data), path, err)
	}
	return
}

// WriteField writes a binary scalar field in the format ReadField expects
func WriteField(path string, data []float64, n [3]int) {
	if len(data) != n[0]*n[1]*n[2] {
		chk.Panic("WriteField: %d samples do not fill dimensions %v", len(data), n)
	}
	f, err := os.Create(path)
	if err != nil {
		chk.Panic("WriteField: cannot create field file %q", path)
	}
	defer f.Close()
	dims := [3]int32{int32(n[0]), int32(n[1]), int32(n[2])}
	if err := binary.Write(f, binary.LittleEndian, &dims); err != nil {
		chk.Panic("WriteField: cannot write dimensions to %q\n%v", path, err)
	}
	if err := binary.Write(f, binary.LittleEndian, data); err != nil {
		chk.Panic("WriteField: cannot write samples to %q\n%v", path, err)
	}
}
