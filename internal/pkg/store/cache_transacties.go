package store

import "fmt"

// transacties_cache holds per-facility, per-day transaction counts and
// revenue, aggregated from the raw transaction table.
var transactiesCacheSpec = cacheSpec{
	table:       tableTransactiesCache,
	dateColumn:  "date",
	parentIndex: "transacties_cache_parent_idx",
	createDDL: fmt.Sprintf(`
create table if not exists %s (
	bikepark_id       text        not null,
	date              date        not null,
	count_transacties bigint      not null,
	sum_price         numeric     not null,
	primary key (bikepark_id, date)
)`, tableTransactiesCache),
	updateSQL: func(filterBikeparks bool) string {
		filter := ""
		if filterBikeparks {
			filter = "and t.bikepark_id = any($3)"
		}
		return fmt.Sprintf(`
insert into %s (bikepark_id, date, count_transacties, sum_price)
select
	t.bikepark_id,
	date_trunc('day', t.checkin)::date as date,
	count(*) as count_transacties,
	coalesce(sum(t.price), 0) as sum_price
from %s t
where t.checkin >= $1 and t.checkin < $2 %s
group by t.bikepark_id, date_trunc('day', t.checkin)::date`,
			tableTransactiesCache, tableTransacties, filter)
	},
}
