package loader

// SampleCSV is the embedded fallback schedule shown when no data source is
// configured or the remote fetch fails with nothing cached. Same shape as the
// remote resource.
const SampleCSV = `Date,Event,School,Notes
2025-09-01,No School,Lincoln Elementary,Labor Day
2025-09-01,No School,Roosevelt Middle School,Labor Day
2025-10-13,Half Day,Lincoln Elementary,Parent-teacher conferences
2025-11-27,No School,Roosevelt Middle School,Thanksgiving break
`
