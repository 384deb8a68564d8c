package evm

import (
	"os"
	"testing"

	"github.com/eth2030/zkevm/log"
)

func TestMain(m *testing.M) {
	log.SetDefault(log.Discard())
	os.Exit(m.Run())
}
