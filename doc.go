/*
Package sdict implements dictionaries that survive a round trip through
a flat, field-based serialization format, and a small document store to keep
them in (on top of Bolt, or in memory).

We implement:

1. Map, a dictionary with unique keys.

2. BoxedMap, a dictionary holding an ordered sequence of values per key.

3. Formatter, which turns values into field sets (see package fields) and
back, invoking checkpoints and consulting surrogates (see package surrogate)
for types it cannot persist natively.

4. Store, keeping field sets as documents inside buckets.

# Technical Details

**Checkpoints.**
A Go map cannot be written as a flat list of fields, so each container keeps
a backing slice of entries next to its lookup map. Formatter calls
BeforeSerialize right before writing a container's fields, which appends the
lookup map's entries to the backing slice if it has fallen behind, and
AfterDeserialize right after reading them, which rebuilds the lookup map from
the backing slice. Entries with no key or value are dropped on rebuild, and
repeated keys keep their first occurrence.

**Sequences.**
Slices are written as a count field plus one field per item:
`_keys_Count`, `_keys_[0]`, `_keys_[1]` and so on. Older data holding
a whole slice in a single field still loads.

## Binary encoding

**Document**: envelope header, then data.

**Envelope header**:
1. Flags (uvarint), carrying the format version.
2. Data size (uvarint).
3. Checksum of data (8 bytes, big-endian xxhash64).

**Data**: msgpack map of the document's field set, in field order. Nested
objects are nested maps.
*/
package sdict
