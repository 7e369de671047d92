package sniff

import "bytes"

// Interleaved reports whether ids look like paired reads stored as
// alternating mates: after mapping every '2' to '1', each id at an even
// position equals the one after it. A trailing unpaired id is ignored.
func Interleaved(ids [][]byte) bool {
	if len(ids) < 2 {
		return false
	}
	for i := 0; i+1 < len(ids); i += 2 {
		if !bytes.Equal(single(ids[i]), single(ids[i+1])) {
			return false
		}
	}
	return true
}

func single(id []byte) []byte {
	return bytes.ReplaceAll(id, []byte{'2'}, []byte{'1'})
}
