// Copyright (c) 2020-2024, The OTNS Authors.
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

package radiomodel

import "math"

// logDistancePathLoss computes the log-distance path loss in dB at dist meters for exponent gamma.
func logDistancePathLoss(dist float64, gamma float64) DbValue {
	return refPathLossDb + 10*gamma*math.Log10(dist/refDistance)
}

// computeDeviceRxPower returns the received power at a device, clipped to [minRxPowerDbm, txPower].
func computeDeviceRxPower(txPower DbValue, dist float64, gamma float64, impairmentDb DbValue) DbValue {
	rx := txPower + deviceGainDb - logDistancePathLoss(dist, gamma) - impairmentDb
	return math.Max(minRxPowerDbm, math.Min(txPower, rx))
}

// computeGatewayRssi returns the received power at the gateway, never above txPower.
func computeGatewayRssi(txPower DbValue, dist float64, gamma float64, impairmentDb DbValue) DbValue {
	return math.Min(txPower, txPower+gatewayGainDb-logDistancePathLoss(dist, gamma)-impairmentDb)
}

// MaxRange returns the distance at which a noiseless gateway link reaches the sensitivity sens.
func MaxRange(txPower DbValue, sens DbValue, gammaGW float64) float64 {
	return refDistance * math.Exp((txPower-sens-refPathLossDb)/(10*gammaGW))
}

// CadSuccessProbability returns the probability (%) that a CAD detects a transmitter at distance dist.
// It decreases with distance.
func CadSuccessProbability(txPower DbValue, dist float64) float64 {
	lpl := cadRefLossDb + 10*cadGamma*math.Log10(dist/cadRefDistance)
	prx := math.Min(txPower, txPower-cadGainDb-lpl)
	return math.Min(100-dist/60, cadSlope*prx+cadIntercept)
}
