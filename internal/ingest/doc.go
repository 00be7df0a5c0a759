// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

/*
Package ingest loads training transactions from external sources.

The CSV loader reads point-of-sale exports in the common transactional
layout: one row per line item, grouped into baskets by invoice number.
Header names are matched case-insensitively, so exports from different
systems (InvoiceNo/Invoice/invoiceid, Description/Product) load without
reshaping.

Rows are filtered during loading: cancelled invoices (identifiers with a
"C" prefix), non-positive quantities, and blank product names are
skipped and counted rather than failing the load.
*/
package ingest
