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
package simulation

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/canl-lora/lorasim/energy"
	"github.com/canl-lora/lorasim/logger"
	"github.com/canl-lora/lorasim/radiomodel"
	. "github.com/canl-lora/lorasim/types"
	"github.com/pkg/errors"
)

// busyDuration returns the time during which at least one transmission of log was on air. log must be sorted by
// start time.
func busyDuration(log []radiomodel.ChannelLogEntry) float64 {
	if len(log) == 0 {
		return 0
	}
	busy := log[0].Airtime
	lastEnd := log[0].Start + log[0].Airtime
	for _, tx := range log[1:] {
		end := tx.Start + tx.Airtime
		if tx.Start < lastEnd {
			if end > lastEnd {
				busy += end - lastEnd
				lastEnd = end
			}
		} else {
			busy += tx.Airtime
			lastEnd = end
		}
	}
	return busy
}

type captureStats struct {
	checks, caps, sumInEars, sumInEarsCap, maxInEars, maxInEarsCap int
}

func (cs *captureStats) add(pc radiomodel.PowerCapture) {
	cs.checks++
	cs.sumInEars += pc.InEars
	cs.maxInEars = max(cs.maxInEars, pc.InEars)
	if pc.Captured {
		cs.caps++
		cs.sumInEarsCap += pc.InEars
		cs.maxInEarsCap = max(cs.maxInEarsCap, pc.InEars)
	}
}

func (s *Simulation) computeResults() *Results {
	cfg := s.cfg
	nrNodes := len(s.nodes)
	st := s.stats
	nCadSym := s.params.CadSymbols()

	res := &Results{
		Nodes: make([]NodeResult, nrNodes),
	}
	res.Settings = ResultSettings{
		RunId:             s.runId,
		Seed:              int64(s.seed),
		Nodes:             nrNodes,
		AvgSendTime:       cfg.AvgSendTime,
		Distribution:      cfg.Distrib.String(),
		Experiment:        cfg.Experiment.String(),
		Protocol:          cfg.Protocol.String(),
		FullCollision:     cfg.FullCollision,
		FullDistances:     cfg.FullDistances,
		NRetry:            cfg.NRetry,
		CadProb:           cfg.CadProb,
		PacketLength:      cfg.PacketLength,
		TargetSchedPacket: cfg.TargetScheduled(),
		WbusyMin:          cfg.WbusyMin,
		WbusyBE:           cfg.WbusyBE,
		WbusyMaxBE:        cfg.WbusyMaxBE,
		WbusyExpBackoff:   cfg.WbusyExpBackoff,
		GaussianNoise:     cfg.GaussianNoise,
		CanlP:             cfg.CanlP,
		CanlL1:            [2]int{cfg.CanlL1Min, cfg.CanlL1Max},
		CanlL2:            cfg.CanlL2,
	}
	if nrNodes > 0 {
		f := s.nodes[0].Frame
		res.Settings.ToaData = f.AirtimeOf(f.DataPayloadSize)
		res.Settings.ToaRts = f.RtsAirtime()
		res.Settings.Difs = f.PreambleTime
	}

	chanLog := append([]radiomodel.ChannelLogEntry(nil), s.channel.ChannelLog()...)
	sort.SliceStable(chanLog, func(i, j int) bool {
		return chanLog[i].Start < chanLog[j].Start
	})

	nodeCaps := make([]captureStats, nrNodes)
	var gwCaps captureStats
	for _, pc := range s.channel.Captures() {
		if pc.Local == GatewayId {
			gwCaps.add(pc)
		} else {
			nodeCaps[pc.Local].add(pc)
		}
	}

	tot := &res.Total
	var allIGTs, durations, latencies, retries, captureRatios, overlaps, captureOverlaps []float64
	globalGenTimes := []float64{0}
	sumTxTime, maxTxTime := 0.0, 0.0
	sumSuccessLatency, minSuccessLatency := 0.0, 0.0
	sumSuccess, sumAttempts, sumPayloadSuccess, sumPayloadGen := 0, 0, 0, 0
	sumAborted, sumDropped, sumListen := 0, 0, 0.0
	sumMaxOverlap, sumMaxCaptureOverlap := 0, 0

	for i, node := range s.nodes {
		c := node.Counters
		f := node.Frame
		nr := &res.Nodes[i]
		nr.Id = node.id
		nr.NumberOfCad = c.NumCad
		nr.Dist = f.DistanceToGateway()

		txTime, firstStart, lastStop := 0.0, 0.0, 0.0
		started := false
		for _, cl := range chanLog {
			if cl.Node != node.id {
				continue
			}
			if !started {
				firstStart, started = cl.Start, true
			}
			txTime += cl.Airtime
			lastStop = cl.Start + cl.Airtime
		}

		nr.EnergyInCadJ = energy.CadEnergyJ(f.SF, f.BW, f.SymTime, nCadSym, c.NumCad)
		nr.EnergyInTransmissionJ = energy.TxEnergyJ(txTime)
		nr.EnergyInListeningJ = energy.RxEnergyJ(c.ListenTime)
		nr.TotalEnergyJ = nr.EnergyInCadJ + nr.EnergyInTransmissionJ + nr.EnergyInListeningJ
		nr.EnergyPerSuccess = ratio(nr.TotalEnergyJ, float64(c.Success))

		nr.CumulatedTxTimeS = txTime / 1000
		nr.CumulatedRxTimeS = c.ListenTime / 1000
		nr.DutyCycle = ratio(txTime, lastStop-firstStart)

		nr.SentDataPackets = c.Sent
		nr.SuccessDataPackets = c.Success
		nr.DER = ratio(float64(c.Success), float64(c.Sent))
		nr.DERMethod2 = ratio(float64(c.Sent-c.Collided), float64(c.Sent))
		nr.PDR = ratio(float64(c.Success), float64(c.Sent+c.Dropped+c.Aborted))
		nr.PayloadByteDeliveryRatio = ratio(float64(c.PayloadSuccess), float64(c.PayloadGen))
		nr.MeanLatency = ratio(c.Latency, float64(c.Sent))
		nr.MeanSuccessLatency = ratio(c.SuccessLatency, float64(c.Success))
		nr.MinSuccessLatency = c.MinSuccessLatency
		nr.AbortedPackets = c.Aborted
		nr.CollidedPackets = c.Collided
		nr.LostPackets = c.Lost
		nr.DroppedPackets = c.Dropped
		nr.MeanRetry = ratio(float64(c.TotalRetry), float64(c.Sent))
		nr.SentRtsPackets = c.RtsSent

		igts := diffs(node.genTimes)
		nr.MeanIGT, nr.StdDevIGT = meanStd(igts)
		allIGTs = append(allIGTs, igts...)
		globalGenTimes = append(globalGenTimes, node.genTimes[1:]...)

		nc := nodeCaps[i]
		nr.SumInEars = nc.sumInEars
		nr.NbCaps = nc.caps
		nr.SumInEarsWithCapture = nc.sumInEarsCap
		nr.PowerChecks = nc.checks
		nr.MaxOverlapDegree = nc.maxInEars
		nr.MaxCaptureOverlapDegree = nc.maxInEarsCap
		nr.PowerCaptureRatio = ratio(float64(nc.caps), float64(nc.checks))
		nr.MeanOverlapDegree = ratio(float64(nc.sumInEars), float64(nc.checks))
		nr.MeanCaptureOverlapDegree = ratio(float64(nc.sumInEarsCap), float64(nc.caps))

		tot.EnergyInCadJ += nr.EnergyInCadJ
		tot.EnergyInTransmissionJ += nr.EnergyInTransmissionJ
		tot.EnergyInListeningJ += nr.EnergyInListeningJ
		tot.TotalEnergyJ += nr.TotalEnergyJ
		tot.NumberOfCad += c.NumCad
		tot.SentRtsPackets += c.RtsSent
		sumTxTime += txTime
		maxTxTime = math.Max(maxTxTime, txTime)
		sumListen += c.ListenTime
		sumSuccessLatency += c.SuccessLatency
		minSuccessLatency += c.MinSuccessLatency
		sumSuccess += c.Success
		sumAttempts += c.Sent + c.Dropped + c.Aborted
		sumPayloadSuccess += c.PayloadSuccess
		sumPayloadGen += c.PayloadGen
		sumAborted += c.Aborted
		sumDropped += c.Dropped
		sumMaxOverlap += nc.maxInEars
		sumMaxCaptureOverlap += nc.maxInEarsCap
		durations = append(durations, nr.DutyCycle)
		latencies = append(latencies, nr.MeanLatency)
		retries = append(retries, nr.MeanRetry)
		captureRatios = append(captureRatios, nr.PowerCaptureRatio)
		overlaps = append(overlaps, nr.MeanOverlapDegree)
		captureOverlaps = append(captureOverlaps, nr.MeanCaptureOverlapDegree)
	}

	n := float64(nrNodes)
	tot.EnergyPerSuccess = ratio(tot.TotalEnergyJ, float64(sumSuccess))
	tot.TotalEnergyJ /= n
	tot.EndSimulationTime = fmt.Sprintf("%vms %vh", s.endTime, s.endTime/3600000)
	tot.CumulatedTxTimeS = sumTxTime / 1000 / n
	tot.CumulatedRxTimeS = sumListen / 1000

	tot.SentDataPackets = float64(st.Sent) / n
	tot.MeanLatency = definedMean(latencies)
	tot.MeanSuccessLatency = ratio(sumSuccessLatency, float64(sumSuccess))
	tot.MinSuccessLatency = minSuccessLatency / n
	tot.AbortedPackets = float64(sumAborted) / n
	tot.CollidedPackets = float64(st.Collided) / n
	tot.LostPackets = float64(st.Lost) / n
	tot.DroppedPackets = float64(sumDropped) / n
	tot.MeanRetry = definedMean(retries)

	tot.NrCollisions = st.Collided
	tot.NrReceived = st.Received
	tot.NrSent = st.Sent
	tot.NrLost = st.Lost
	tot.NrScheduled = st.Scheduled
	tot.NrRtsCollisions = st.RtsCollided
	tot.RtsReceivedPackets = st.RtsReceived
	tot.RtsLostPackets = st.RtsLost

	tot.DER = ratio(float64(st.Received), float64(st.Sent))
	tot.DERMethod2 = ratio(float64(st.Sent-st.Collided), float64(st.Sent))
	tot.DutyCycle = definedMean(durations)
	tot.PDR = ratio(float64(sumSuccess), float64(sumAttempts))
	tot.PayloadByteDeliveryRatio = ratio(float64(sumPayloadSuccess), float64(sumPayloadGen))
	tot.NTransmit = st.NTransmit
	tot.MeanInterTransmitTimeMs = ratio(st.InterTransmitTime, float64(st.NTransmit))

	tot.MeanIGT, tot.StdDevIGT = meanStd(allIGTs)
	sort.Float64s(globalGenTimes)
	globalIGTs := diffs(globalGenTimes)
	short := 0
	for _, igt := range globalIGTs {
		if igt < 1000 {
			short++
		}
	}
	tot.ShortIGTs = ratio(float64(short), float64(len(globalIGTs)))

	tot.ChannelOccupation = Undefined
	tot.ChannelOverlapRatio = Undefined
	if len(chanLog) > 0 {
		busy := busyDuration(chanLog)
		lastEnd := 0.0
		for _, cl := range chanLog {
			lastEnd = math.Max(lastEnd, cl.Start+cl.Airtime)
		}
		tot.ChannelOccupation = ratio(busy, lastEnd-chanLog[0].Start)
		tot.ChannelOverlapRatio = ratio(sumTxTime-busy, sumTxTime-maxTxTime)
	}
	if cfg.KeepChanLog {
		tot.ChanLog = chanLog
	}

	tot.GWPowerCaptureRatio = ratio(float64(gwCaps.caps), float64(gwCaps.checks))
	tot.GWOverlapDegree = ratio(float64(gwCaps.sumInEars), float64(gwCaps.checks))
	tot.GWMaxOverlapDegree = gwCaps.maxInEars
	tot.GWCaptureOverlapDegree = ratio(float64(gwCaps.sumInEarsCap), float64(gwCaps.caps))
	tot.PowerCaptureRatio = definedMean(captureRatios)
	tot.MeanOverlapDegree = definedMean(overlaps)
	tot.MeanCaptureOverlapDegree = definedMean(captureOverlaps)
	tot.MaxOverlapDegree = float64(sumMaxOverlap) / n
	tot.MaxCaptureOverlapDegree = float64(sumMaxCaptureOverlap) / n

	return res
}

// Node returns the results of node id, or nil.
func (r *Results) Node(id NodeId) *NodeResult {
	for i := range r.Nodes {
		if r.Nodes[i].Id == id {
			return &r.Nodes[i]
		}
	}
	return nil
}

// SaveFile writes the results as indented JSON to fn.
func (r *Results) SaveFile(fn string) error {
	r.FileTime = time.Now().Format(time.RFC3339)
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return errors.Wrap(err, "could not marshal results JSON data")
	}
	if err = ensureParentDir(fn); err != nil {
		return err
	}
	if err = os.WriteFile(fn, data, 0644); err != nil {
		return errors.Wrapf(err, "could not write results JSON file %s", fn)
	}
	logger.Debugf("results saved to %s", fn)
	return nil
}
