// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package shuffle implements the assignment algorithm: a uniformly random
permutation closed into a ring, so every participant gives to the next
one in the permuted order.

For n participants this guarantees a derangement (nobody draws themself)
made of exactly one n-cycle. It is used in two places: the store applies
it transactionally when a room is shuffled, and the stateless /shuffle
endpoint runs it directly on a list of names.
*/
package shuffle
