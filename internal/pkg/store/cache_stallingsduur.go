package store

import "fmt"

// Duration-of-stay histogram buckets, ordered. The bucket labels end up in
// report category strings, so they contain no underscore.
var StallingsduurBuckets = []string{"<1u", "1-2u", "2-4u", "4-8u", "8-24u", ">24u"}

// stallingsduurBucketExpr buckets a stay duration (seconds) into the fixed
// histogram classes.
const StallingsduurBucketExpr = `case
	when extract(epoch from (t.checkout - t.checkin)) < 3600 then '<1u'
	when extract(epoch from (t.checkout - t.checkin)) < 7200 then '1-2u'
	when extract(epoch from (t.checkout - t.checkin)) < 14400 then '2-4u'
	when extract(epoch from (t.checkout - t.checkin)) < 28800 then '4-8u'
	when extract(epoch from (t.checkout - t.checkin)) < 86400 then '8-24u'
	else '>24u'
end`

var stallingsduurCacheSpec = cacheSpec{
	table:       tableStallingsduurCache,
	dateColumn:  "date",
	parentIndex: "stallingsduur_cache_parent_idx",
	createDDL: fmt.Sprintf(`
create table if not exists %s (
	bikepark_id       text   not null,
	date              date   not null,
	duration_bucket   text   not null,
	count_transacties bigint not null,
	primary key (bikepark_id, date, duration_bucket)
)`, tableStallingsduurCache),
	updateSQL: func(filterBikeparks bool) string {
		filter := ""
		if filterBikeparks {
			filter = "and t.bikepark_id = any($3)"
		}
		return fmt.Sprintf(`
insert into %s (bikepark_id, date, duration_bucket, count_transacties)
select
	t.bikepark_id,
	date_trunc('day', t.checkin)::date as date,
	%s as duration_bucket,
	count(*) as count_transacties
from %s t
where t.checkout is not null and t.checkin >= $1 and t.checkin < $2 %s
group by t.bikepark_id, date_trunc('day', t.checkin)::date, 3`,
			tableStallingsduurCache, StallingsduurBucketExpr, tableTransacties, filter)
	},
}
