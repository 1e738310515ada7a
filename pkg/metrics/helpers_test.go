package metrics

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"
)

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	m, err := findMetric(mfs, name, label, value)
	if err != nil {
		return 0, err
	}
	return m.GetCounter().GetValue(), nil
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	m, err := findMetric(mfs, name, label, value)
	if err != nil {
		return 0, err
	}
	return m.GetHistogram().GetSampleSum(), nil
}

func findMetric(mfs []*dto.MetricFamily, name, label, value string) (*dto.Metric, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m, nil
				}
			}
		}
		return nil, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
	}
	return nil, fmt.Errorf("metric %q not found", name)
}
