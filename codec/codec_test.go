package codec_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/pdcamargo/voidscript-storage/codec"
)

type health struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	bz, err := codec.Encode(health{Value: 10, Label: "hp"})
	assert.NilError(t, err)

	got, err := codec.Decode[health](bz)
	assert.NilError(t, err)
	assert.Equal(t, health{Value: 10, Label: "hp"}, got)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := codec.Decode[health]([]byte(`{"value":`))
	assert.Check(t, err != nil)
}

func TestEncodeRejectsUnsupportedValues(t *testing.T) {
	_, err := codec.Encode(make(chan int))
	assert.Check(t, err != nil)
}
