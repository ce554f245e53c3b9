// Copyright (c) 2022, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package energy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/canl-lora/lorasim/types"
	"github.com/stretchr/testify/assert"
)

func TestCadChargeNAh(t *testing.T) {
	v, ok := CadChargeNAh(7, 125, 4)
	assert.True(t, ok)
	assert.Equal(t, 5.03, v)

	v, ok = CadChargeNAh(12, 500, 16)
	assert.True(t, ok)
	assert.Equal(t, 147.35, v)

	// between 2 and 4 symbols
	v, ok = CadChargeNAh(12, 125, 3)
	assert.True(t, ok)
	assert.InDelta(t, (99.57+169.54)/2, v, 1e-9)

	_, ok = CadChargeNAh(9, 125, 4)
	assert.False(t, ok)
}

func TestCadEnergyJ(t *testing.T) {
	assert.Equal(t, 0.0, CadEnergyJ(9, 125, 4.096, 4, 10))

	one := CadEnergyJ(12, 125, 32.768, 4, 1)
	assert.InDelta(t, 32.768*4*(169.54/3600/1e9)*3.3/1e3, one, 1e-20)
	assert.InDelta(t, 10*one, CadEnergyJ(12, 125, 32.768, 4, 10), 1e-20)
}

func TestTxRxEnergy(t *testing.T) {
	assert.InDelta(t, 1000*45*3.3/1e6, TxEnergyJ(1000), 1e-12)
	assert.InDelta(t, 1000*5.3*3.3/1e6, RxEnergyJ(1000), 1e-12)
	assert.Equal(t, 0.0, TxEnergyJ(0))
}

func TestNodeEnergy_States(t *testing.T) {
	ea := NewEnergyAnalyser()
	ea.AddNode(0, 0, 0.5)
	ea.AddNode(0, 10, 7) // ignored

	ea.SetRadioState(0, RadioCad, 100)
	ea.SetRadioState(0, RadioRx, 110)
	ea.SetRadioState(0, RadioTx, 150)
	ea.SetRadioState(0, RadioIdle, 200)
	ea.SetRadioState(0, RadioCad, 300)
	ea.SetRadioState(0, RadioIdle, 305)

	st := ea.GetNode(0).Status()
	assert.Equal(t, 200.0, st.SpentIdle)
	assert.Equal(t, 15.0, st.SpentCad)
	assert.Equal(t, 40.0, st.SpentRx)
	assert.Equal(t, 50.0, st.SpentTx)
	assert.Equal(t, 2, st.NumCad)
	assert.Equal(t, 1.0, ea.GetNode(0).CadEnergy())
	assert.InDelta(t, 1.0+TxEnergyJ(50)+RxEnergyJ(40), ea.GetNode(0).TotalEnergy(), 1e-12)

	assert.Panics(t, func() {
		ea.SetRadioState(0, RadioTx, 10)
	})
}

func TestEnergyAnalyser_SaveEnergyDataToFile(t *testing.T) {
	ea := NewEnergyAnalyser()
	ea.SetTitle("run")
	ea.AddNode(1, 0, 0)
	ea.AddNode(0, 0, 0)
	ea.SetRadioState(0, RadioTx, 0)
	ea.SetRadioState(1, RadioRx, 0)
	ea.StoreNetworkEnergy(1000)

	history := ea.GetNetworkEnergyHistory()
	assert.Equal(t, 1, len(history))
	assert.InDelta(t, TxEnergyJ(1000)/2, history[0].EnergyConsTx, 1e-12)
	assert.InDelta(t, RxEnergyJ(1000)/2, history[0].EnergyConsRx, 1e-12)

	dir := t.TempDir()
	assert.Nil(t, ea.SaveEnergyDataToFile(dir, "", 1000))

	data, err := os.ReadFile(filepath.Join(dir, "run_nodes.txt"))
	assert.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, 4, len(lines))
	assert.True(t, strings.HasPrefix(lines[2], "0\t"))
	assert.True(t, strings.HasPrefix(lines[3], "1\t"))

	_, err = os.Stat(filepath.Join(dir, "run.txt"))
	assert.Nil(t, err)
}
