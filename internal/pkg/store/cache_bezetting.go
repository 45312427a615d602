package store

import "fmt"

// bezettingsdata_cache carries occupancy snapshots rolled up to hour
// precision: max capacity and the rounded mean occupation per facility per
// hour. The interval column is fixed at 60 so the period grouping builder
// can treat cache rows uniformly.
var bezettingCacheSpec = cacheSpec{
	table:       tableBezettingCache,
	dateColumn:  `"timestamp"`,
	parentIndex: "bezettingsdata_cache_parent_idx",
	createDDL: fmt.Sprintf(`
create table if not exists %s (
	bikepark_id text        not null,
	"timestamp" timestamptz not null,
	capacity    integer     not null,
	occupation  integer     not null,
	"interval"  integer     not null default 60,
	fillup      boolean     not null default false,
	source      text        not null default '',
	primary key (bikepark_id, "timestamp", fillup, source)
)`, tableBezettingCache),
	updateSQL: func(filterBikeparks bool) string {
		filter := ""
		if filterBikeparks {
			filter = "and b.bikepark_id = any($3)"
		}
		return fmt.Sprintf(`
insert into %s (bikepark_id, "timestamp", capacity, occupation, "interval", fillup, source)
select
	b.bikepark_id,
	date_trunc('hour', b."timestamp") as "timestamp",
	max(b.capacity) as capacity,
	round(avg(b.occupation))::integer as occupation,
	60 as "interval",
	b.fillup,
	b.source
from %s b
where b."timestamp" >= $1 and b."timestamp" < $2 %s
group by b.bikepark_id, date_trunc('hour', b."timestamp"), b.fillup, b.source`,
			tableBezettingCache, tableBezettingsdata, filter)
	},
}
