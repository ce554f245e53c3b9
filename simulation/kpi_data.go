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
	"github.com/canl-lora/lorasim/radiomodel"
	. "github.com/canl-lora/lorasim/types"
)

// Undefined is reported for a ratio whose denominator is zero.
const Undefined = -1.0

type ResultSettings struct {
	RunId             string       `json:"run_id"`
	Seed              int64        `json:"seed"`
	Nodes             int          `json:"nodes"`
	AvgSendTime       float64      `json:"avg_send_time"`
	Distribution      string       `json:"distribution"`
	Experiment        string       `json:"experiment"`
	Protocol          string       `json:"protocol"`
	FullCollision     bool         `json:"full_collision"`
	FullDistances     bool         `json:"full_distances"`
	ToaData           float64      `json:"toa_data"`
	ToaRts            float64      `json:"toa_rts"`
	Difs              float64      `json:"difs"`
	NRetry            int          `json:"n_retry"`
	CadProb           float64      `json:"cad_prob"`
	PacketLength      int          `json:"packet_length"`
	TargetSchedPacket int          `json:"target_sched_packet"`
	WbusyMin          int          `json:"wbusy_min"`
	WbusyBE           int          `json:"wbusy_be"`
	WbusyMaxBE        int          `json:"wbusy_max_be"`
	WbusyExpBackoff   bool         `json:"wbusy_exp_backoff"`
	GaussianNoise     bool         `json:"gaussian_noise"`
	CanlP             int          `json:"canl_p"`
	CanlL1            [2]int       `json:"canl_l1"`
	CanlL2            int          `json:"canl_l2"`
}

type NodeResult struct {
	Id                       NodeId  `json:"id"`
	NumberOfCad              int     `json:"number_of_CAD"`
	Dist                     float64 `json:"dist"`
	EnergyInCadJ             float64 `json:"energy_in_CAD_J"`
	EnergyInTransmissionJ    float64 `json:"energy_in_transmission_J"`
	EnergyInListeningJ       float64 `json:"energy_in_listening_J"`
	TotalEnergyJ             float64 `json:"total_energy_J"`
	EnergyPerSuccess         float64 `json:"energy_per_success"`
	CumulatedTxTimeS         float64 `json:"cumulated_TX_time_s"`
	CumulatedRxTimeS         float64 `json:"cumulated_RX_time_s"`
	DutyCycle                float64 `json:"duty_cycle"`
	SentDataPackets          int     `json:"sent_data_packets"`
	SuccessDataPackets       int     `json:"success_data_packets"`
	DER                      float64 `json:"DER"`
	DERMethod2               float64 `json:"DER_method_2"`
	PDR                      float64 `json:"PDR"`
	PayloadByteDeliveryRatio float64 `json:"payload_byte_delivery_ratio"`
	MeanLatency              float64 `json:"mean_latency"`
	MeanSuccessLatency       float64 `json:"mean_success_latency"`
	MinSuccessLatency        float64 `json:"min_success_latency"`
	AbortedPackets           int     `json:"aborted_packets"`
	CollidedPackets          int     `json:"collided_packets"`
	LostPackets              int     `json:"lost_packets"`
	DroppedPackets           int     `json:"dropped_packets"`
	MeanRetry                float64 `json:"mean_retry"`
	SentRtsPackets           int     `json:"sent_rts_packets"`
	MeanIGT                  float64 `json:"mean_IGT"`
	StdDevIGT                float64 `json:"std_dev_IGT"`
	SumInEars                int     `json:"sum_in_ears"`
	NbCaps                   int     `json:"nb_caps"`
	SumInEarsWithCapture     int     `json:"sum_in_ears_with_capture"`
	PowerChecks              int     `json:"powerChecks"`
	MaxOverlapDegree         int     `json:"max_overlap_degree"`
	MaxCaptureOverlapDegree  int     `json:"max_capture_overlap_degree"`
	PowerCaptureRatio        float64 `json:"power_capture_ratio"`
	MeanOverlapDegree        float64 `json:"mean_overlap_degree"`
	MeanCaptureOverlapDegree float64 `json:"mean_capture_overlap_degree"`
}

// TotalResult holds the network-wide figures. Per-node quantities are averaged over the nodes unless the field
// name says otherwise.
type TotalResult struct {
	EnergyInCadJ          float64 `json:"energy_in_CAD_J"`
	EnergyInTransmissionJ float64 `json:"energy_in_transmission_J"`
	EnergyInListeningJ    float64 `json:"energy_in_listening_J"`
	TotalEnergyJ          float64 `json:"total_energy_J"`
	EnergyPerSuccess      float64 `json:"energy_per_success"`
	EndSimulationTime     string  `json:"end_simulation_time"`
	CumulatedTxTimeS      float64 `json:"cumulated_TX_time_s"`
	CumulatedRxTimeS      float64 `json:"cumulated_RX_time_s"`
	NumberOfCad           int     `json:"number_of_CAD"`

	SentDataPackets    float64 `json:"sent_data_packets"`
	MeanLatency        float64 `json:"mean_latency"`
	MeanSuccessLatency float64 `json:"mean_success_latency"`
	MinSuccessLatency  float64 `json:"min_success_latency"`
	AbortedPackets     float64 `json:"aborted_packets"`
	CollidedPackets    float64 `json:"collided_packets"`
	LostPackets        float64 `json:"lost_packets"`
	DroppedPackets     float64 `json:"dropped_packets"`
	MeanRetry          float64 `json:"mean_retry"`

	NrCollisions int `json:"nrCollisions"`
	NrReceived   int `json:"nrReceived"`
	NrSent       int `json:"nrSent"`
	NrLost       int `json:"nrLost"`
	NrScheduled  int `json:"nrScheduled"`

	SentRtsPackets     int `json:"sent_rts_packets"`
	NrRtsCollisions    int `json:"nrRTSCollisions"`
	RtsReceivedPackets int `json:"RTS_received_packets"`
	RtsLostPackets     int `json:"RTS_lost_packets"`

	DER                      float64 `json:"DER"`
	DERMethod2               float64 `json:"DER_method_2"`
	DutyCycle                float64 `json:"duty_cycle"`
	PDR                      float64 `json:"PDR"`
	PayloadByteDeliveryRatio float64 `json:"payload_byte_delivery_ratio"`
	NTransmit                int     `json:"n_transmit"`
	MeanInterTransmitTimeMs  float64 `json:"mean_inter_transmit_time_ms"`

	MeanIGT   float64 `json:"mean_IGT"`
	StdDevIGT float64 `json:"std_dev_IGT"`
	ShortIGTs float64 `json:"short_IGTs"`

	ChannelOccupation   float64 `json:"channel_occupation"`
	ChannelOverlapRatio float64 `json:"channel_overlap_ratio"`

	GWPowerCaptureRatio      float64 `json:"GW_power_capture_ratio"`
	GWOverlapDegree          float64 `json:"GW_overlap_degree"`
	GWMaxOverlapDegree       int     `json:"GW_max_overlap_degree"`
	GWCaptureOverlapDegree   float64 `json:"GW_capture_overlap_degree"`
	PowerCaptureRatio        float64 `json:"power_capture_ratio"`
	MeanOverlapDegree        float64 `json:"mean_overlap_degree"`
	MeanCaptureOverlapDegree float64 `json:"mean_capture_overlap_degree"`
	MaxOverlapDegree         float64 `json:"max_overlap_degree"`
	MaxCaptureOverlapDegree  float64 `json:"max_capture_overlap_degree"`

	ChanLog []radiomodel.ChannelLogEntry `json:"chanlog,omitempty"`
}

type Results struct {
	FileTime string         `json:"created"`
	Settings ResultSettings `json:"settings"`
	Nodes    []NodeResult   `json:"nodes"`
	Total    TotalResult    `json:"TOTAL"`
}
