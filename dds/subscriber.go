// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package dds

import "github.com/go-dds/rtps/qos"

// Subscriber is a grouping container for DataReaders, created via
// DomainParticipant.CreateSubscriber.
type Subscriber struct {
	dp *DomainParticipant
}

// CreateDataReader builds a DataReader for topic with the given QoS,
// announcing it over SEDP so matched DataWriters can discover it.
func (s *Subscriber) CreateDataReader(topic Topic, rq qos.ReaderQos) (*DataReader, error) {
	return s.dp.createDataReader(topic, rq)
}

// DeleteDataReader removes r, stopping its SEDP announcement. Returns
// ErrorAlreadyDeleted if r was already deleted.
func (s *Subscriber) DeleteDataReader(r *DataReader) error {
	return s.dp.deleteDataReader(r)
}
