// Copyright (c) 2022-2023, The OTNS Authors.
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
	"fmt"
	"sort"
)

// cadChargeNAh is the charge (nAh) of one CAD of 1, 2, 4, 8 or 16 symbols, from Semtech's SX1262 CAD
// performance note. Only SF7 and SF12 at 125 and 500 kHz are characterised.
var cadChargeNAh = map[string]map[int]float64{
	"SF7BW125":  {1: 1.73, 2: 2.84, 4: 5.03, 8: 9.41, 16: 18.16},
	"SF7BW500":  {1: 0.502, 2: 0.81, 4: 1.43, 8: 2.62, 16: 4.97},
	"SF12BW125": {1: 64.59, 2: 99.57, 4: 169.54, 8: 309.50, 16: 589.39},
	"SF12BW500": {1: 16.15, 2: 24.89, 4: 42.39, 8: 77.38, 16: 147.35},
}

// CadChargeNAh returns the charge of one CAD of nSym symbols. Symbol counts between two table entries are
// interpolated linearly; ok is false when sf/bw is not characterised.
func CadChargeNAh(sf int, bw float64, nSym int) (charge float64, ok bool) {
	row, ok := cadChargeNAh[fmt.Sprintf("SF%dBW%v", sf, bw)]
	if !ok {
		return 0, false
	}
	if v, exact := row[nSym]; exact {
		return v, true
	}

	syms := make([]int, 0, len(row))
	for s := range row {
		syms = append(syms, s)
	}
	sort.Ints(syms)
	if nSym <= syms[0] {
		return row[syms[0]], true
	}
	for i := 1; i < len(syms); i++ {
		if nSym < syms[i] {
			lo, hi := syms[i-1], syms[i]
			frac := float64(nSym-lo) / float64(hi-lo)
			return row[lo] + frac*(row[hi]-row[lo]), true
		}
	}
	return row[syms[len(syms)-1]], true
}

// CadEnergyJ returns the energy of nCad channel activity detections of nSym symbols each. It is 0 for an sf/bw
// without CAD characterisation.
func CadEnergyJ(sf int, bw float64, symTime float64, nSym int, nCad int) float64 {
	charge, ok := CadChargeNAh(sf, bw, nSym)
	if !ok {
		return 0
	}
	return symTime * float64(nSym) * (charge / 3600 / 1e9) * SupplyVoltage * float64(nCad) / 1e3
}

// TxEnergyJ returns the energy of txTime ms of transmission.
func TxEnergyJ(txTime float64) float64 {
	return txTime * RadioTxCurrent * SupplyVoltage / 1e6
}

// RxEnergyJ returns the energy of rxTime ms of reception.
func RxEnergyJ(rxTime float64) float64 {
	return rxTime * RadioRxCurrent * SupplyVoltage / 1e6
}
