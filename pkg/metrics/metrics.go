// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// callbackDataNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	callbackDataNamespace = "callbackdata"

	schemaLabelName = "schema"
	formatLabelName = "format"
	statusLabelName = "status"

	// 以下为 status 标签的取值。
	SuccessLabel    = "ok"
	FailLabel       = "fail"
	NotFoundLabel   = "not_found"
	HandlerErrLabel = "handler_error"

	// 以下为 format 标签的取值。
	CompactFormatLabel = "compact"
	LegacyFormatLabel  = "legacy"
)

var (
	// payloadSizeBuckets 为 payload 长度的桶划分，单位为字节。
	// Telegram callback_data 上限为 64 字节。
	payloadSizeBuckets = []float64{8, 16, 24, 32, 40, 48, 56, 64, 128, 256}

	PackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: callbackDataNamespace,
			Name:      "pack_total",
			Help:      "count of pack calls by schema and result",
		}, []string{schemaLabelName, statusLabelName})

	UnpackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: callbackDataNamespace,
			Name:      "unpack_total",
			Help:      "count of unpack calls by schema, payload format and result",
		}, []string{schemaLabelName, formatLabelName, statusLabelName})

	PayloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: callbackDataNamespace,
			Name:      "payload_bytes",
			Help:      "size of packed payloads in bytes",
			Buckets:   payloadSizeBuckets,
		}, []string{schemaLabelName})

	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: callbackDataNamespace,
			Name:      "dispatch_total",
			Help:      "count of router dispatches by result",
		}, []string{statusLabelName})

	registerOnce     sync.Once
	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标，重复调用只生效一次。
func Register(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(PackTotal)
		r.MustRegister(UnpackTotal)
		r.MustRegister(PayloadBytes)
		r.MustRegister(DispatchTotal)
		metricRegisterer = r
	})
}
