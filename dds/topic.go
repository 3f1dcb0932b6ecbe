// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package dds

// Topic names a data channel within a domain and the serialized type carried
// on it. Topics have no wire presence of their own; they are announced for
// remote participants' benefit (so a reader can name a topic before any
// writer using it appears) and used locally to match DataWriters against
// DataReaders by name and type.
type Topic struct {
	Name     string
	TypeName string
}
