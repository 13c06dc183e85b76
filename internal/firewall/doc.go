// Package firewall reads intrusion-prevention state out of the local
// firewall. It does not write any rules: the only job here is finding
// the chains fail2ban manages (by name prefix) and collecting the
// source addresses of their reject/drop rules.
//
// Two backends implement the ChainSource interface: a native nftables
// backend (netlink, Linux only) and an iptables backend that parses
// "iptables -L -n" output through a CommandRunner. The Extractor sits
// on top of either and produces the deduplicated, strictly validated
// IPv4 set the sync engine pushes to the edge.
package firewall
