package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigure(t *testing.T) {
	defer Configure(&bytes.Buffer{}, false, false)

	testCases := []struct {
		name           string
		verbose, debug bool
		want           string
	}{
		{"quiet", false, false, "[+] info\nERROR: "},
		{"verbose", true, false, "[*] trace\n[+] info\nERROR: "},
		{"debug", false, true, "[d] debug\n[+] info\n[WARNING] warning\nERROR: "},
		{"both", true, true, "[*] trace\n[d] debug\n[+] info\n[WARNING] warning\nERROR: "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			Configure(&out, tc.verbose, tc.debug)
			Trace.Println("trace")
			Debug.Println("debug")
			Info.Println("info")
			Warning.Println("warning")
			Error.SetFlags(0)
			Error.Print("")
			assert.Equal(t, tc.want+"\n", out.String())
		})
	}
}
