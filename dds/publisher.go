// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package dds

import "github.com/go-dds/rtps/qos"

// Publisher is a grouping container for DataWriters, created via
// DomainParticipant.CreatePublisher.
type Publisher struct {
	dp *DomainParticipant
}

// CreateDataWriter builds a DataWriter for topic with the given QoS,
// announcing it over SEDP so matched DataReaders can discover it.
func (p *Publisher) CreateDataWriter(topic Topic, wq qos.WriterQos) (*DataWriter, error) {
	return p.dp.createDataWriter(topic, wq)
}

// DeleteDataWriter removes w, stopping its SEDP announcement. Returns
// ErrorAlreadyDeleted if w was already deleted.
func (p *Publisher) DeleteDataWriter(w *DataWriter) error {
	return p.dp.deleteDataWriter(w)
}
