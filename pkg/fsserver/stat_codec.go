/*
Copyright 2012 Google Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fsserver

import "encoding/binary"

// StatWireSize is the fixed byte length a STAT command's output buffer
// must provide: 17 fields, every one widened to 8 bytes so the layout
// needs no padding rules beyond "little-endian, one field after
// another", matching fs_stat_t.
const StatWireSize = 17 * 8

// encodeStat packs st into the STAT command's wire layout, in the exact
// field order fs_stat_t declares.
func encodeStat(st Stat) []byte {
	buf := make([]byte, StatWireSize)
	binary.LittleEndian.PutUint64(buf[0:8], st.Dev)
	binary.LittleEndian.PutUint64(buf[8:16], st.Ino)
	binary.LittleEndian.PutUint64(buf[16:24], st.Mode)
	binary.LittleEndian.PutUint64(buf[24:32], st.Nlink)
	binary.LittleEndian.PutUint64(buf[32:40], st.UID)
	binary.LittleEndian.PutUint64(buf[40:48], st.GID)
	binary.LittleEndian.PutUint64(buf[48:56], st.Rdev)
	binary.LittleEndian.PutUint64(buf[56:64], st.Size)
	binary.LittleEndian.PutUint64(buf[64:72], st.Blksize)
	binary.LittleEndian.PutUint64(buf[72:80], st.Blocks)
	binary.LittleEndian.PutUint64(buf[80:88], st.ATime)
	binary.LittleEndian.PutUint64(buf[88:96], st.MTime)
	binary.LittleEndian.PutUint64(buf[96:104], st.CTime)
	binary.LittleEndian.PutUint64(buf[104:112], st.ATimeNsec)
	binary.LittleEndian.PutUint64(buf[112:120], st.MTimeNsec)
	binary.LittleEndian.PutUint64(buf[120:128], st.CTimeNsec)
	binary.LittleEndian.PutUint64(buf[128:136], st.Used)
	return buf
}
